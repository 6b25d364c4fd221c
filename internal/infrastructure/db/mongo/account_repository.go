package mongo

import (
	"context"
	"fmt"

	"github.com/samber/lo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/tweetfi/tweetfi-service/internal/core/domain"
)

const accountsCollection = "tracked_accounts"

// AccountRepository reads the tracked account list. Rows are managed outside
// this service; nothing here writes to the collection.
type AccountRepository struct {
	col *mongo.Collection
}

func NewAccountRepository(db *mongo.Database) *AccountRepository {
	return &AccountRepository{col: db.Collection(accountsCollection)}
}

// TrackedHandles returns the usernames of active accounts, oldest first.
func (r *AccountRepository) TrackedHandles(ctx context.Context) ([]domain.AccountHandle, error) {
	accounts, err := r.find(ctx, bson.M{"active": true})
	if err != nil {
		return nil, err
	}
	return lo.Map(accounts, func(a domain.TrackedAccount, _ int) domain.AccountHandle {
		return domain.AccountHandle(a.Username)
	}), nil
}

// List returns every row, active or not.
func (r *AccountRepository) List(ctx context.Context) ([]domain.TrackedAccount, error) {
	return r.find(ctx, bson.M{})
}

// Count returns the number of active accounts.
func (r *AccountRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	n, err := r.col.CountDocuments(ctx, bson.M{"active": true})
	if err != nil {
		return 0, fmt.Errorf("count tracked accounts: %w", err)
	}
	return n, nil
}

func (r *AccountRepository) find(ctx context.Context, filter bson.M) ([]domain.TrackedAccount, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "added_at", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find tracked accounts: %w", err)
	}
	defer cur.Close(ctx)

	accounts := make([]domain.TrackedAccount, 0)
	if err := cur.All(ctx, &accounts); err != nil {
		return nil, fmt.Errorf("decode tracked accounts: %w", err)
	}
	return accounts, nil
}
