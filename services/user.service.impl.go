package services

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"stayhaven/domain"
	"stayhaven/pms"
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// GuestSyncer is the slice of the property-management client used to mirror
// profile edits onto the upstream guest record.
type GuestSyncer interface {
	UpdateGuest(ctx context.Context, guestID int, guest pms.GuestRecord) error
}

// userCollection is the slice of *mongo.Collection the service touches.
type userCollection interface {
	FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) *mongo.SingleResult
	UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) (*mongo.UpdateResult, error)
}

type UserServiceImpl struct {
	collection userCollection
	ctx        context.Context
	guests     GuestSyncer
	logger     *logrus.Logger
}

func NewUserServiceImpl(collection userCollection, ctx context.Context, guests GuestSyncer, logger *logrus.Logger) UserService {
	return &UserServiceImpl{collection: collection, ctx: ctx, guests: guests, logger: logger}
}

func (us *UserServiceImpl) GetUserByID(id string, ctx context.Context) (*domain.User, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, errors.New("invalid user id")
	}

	var user domain.User
	err = us.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, errors.New("user does not exist")
		}
		return nil, err
	}
	return &user, nil
}

// findUserByEmail resolves the profile holding the email, nil when no profile
// does.
func (us *UserServiceImpl) findUserByEmail(email string, ctx context.Context) (*domain.User, error) {
	var user domain.User
	err := us.collection.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// UpdateProfile applies a partial edit. Empty fields in the update are left
// alone; strict field validation is intentionally not enforced here. An email
// change must keep emails unique across profiles. The upstream guest-record
// sync is best effort: its failure is logged and never fails the profile
// update itself.
func (us *UserServiceImpl) UpdateProfile(id string, update *domain.ProfileUpdate, ctx context.Context) (*domain.User, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, errors.New("invalid user id")
	}

	set := bson.M{}
	if update.Name != "" {
		set["name"] = update.Name
	}
	if update.Lastname != "" {
		set["lastname"] = update.Lastname
	}
	if update.Email != "" {
		email := strings.ToLower(strings.TrimSpace(update.Email))
		if !emailPattern.MatchString(email) {
			return nil, errors.New("invalid email format")
		}
		holder, err := us.findUserByEmail(email, ctx)
		if err != nil {
			return nil, err
		}
		if holder != nil && holder.ID != objID {
			return nil, errors.New("email already in use")
		}
		set["email"] = email
	}
	if update.Phone != "" {
		set["phone"] = update.Phone
	}
	if update.Address.Country != "" {
		set["address.country"] = update.Address.Country
	}
	if update.Address.City != "" {
		set["address.city"] = update.Address.City
	}
	if update.Address.Street != "" {
		set["address.street"] = update.Address.Street
	}

	if len(set) > 0 {
		_, err = us.collection.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{"$set": set})
		if err != nil {
			return nil, err
		}
	}

	var user domain.User
	err = us.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&user)
	if err != nil {
		return nil, err
	}

	if user.GuestID != 0 {
		guest := pms.GuestRecord{
			ID:    user.GuestID,
			Name:  strings.TrimSpace(user.Name + " " + user.Lastname),
			Email: user.Email,
			Phone: user.Phone,
		}
		if err := us.guests.UpdateGuest(ctx, user.GuestID, guest); err != nil {
			us.logger.WithFields(logrus.Fields{"path": "services/user", "guest": user.GuestID}).
				Error("Error syncing guest record:", err)
		}
	}

	return &user, nil
}
