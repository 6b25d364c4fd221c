package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/tweetfi/tweetfi-service/internal/core/domain"
)

const operatorsCollection = "operators"

type OperatorRepository struct {
	col *mongo.Collection
}

func NewOperatorRepository(db *mongo.Database) *OperatorRepository {
	return &OperatorRepository{col: db.Collection(operatorsCollection)}
}

type operatorDoc struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Username     string             `bson:"username"`
	PasswordHash string             `bson:"password_hash"`
	Role         string             `bson:"role"`
	CreatedAt    time.Time          `bson:"created_at"`
	UpdatedAt    time.Time          `bson:"updated_at"`
}

// Create inserts op and returns it with its generated ID. A duplicate
// username maps to domain.ErrOperatorExists.
func (r *OperatorRepository) Create(ctx context.Context, op *domain.Operator) (*domain.Operator, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	doc := operatorDoc{
		Username:     op.Username,
		PasswordHash: op.PasswordHash,
		Role:         op.Role,
		CreatedAt:    op.CreatedAt.UTC(),
		UpdatedAt:    op.UpdatedAt.UTC(),
	}

	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrOperatorExists
		}
		return nil, fmt.Errorf("insert operator: %w", err)
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		doc.ID = id
	}
	return doc.toDomain(), nil
}

func (r *OperatorRepository) FindByUsername(ctx context.Context, username string) (*domain.Operator, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var doc operatorDoc
	if err := r.col.FindOne(ctx, bson.M{"username": username}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrOperatorNotFound
		}
		return nil, fmt.Errorf("find operator: %w", err)
	}
	return doc.toDomain(), nil
}

func (d operatorDoc) toDomain() *domain.Operator {
	return &domain.Operator{
		ID:           d.ID.Hex(),
		Username:     d.Username,
		PasswordHash: d.PasswordHash,
		Role:         d.Role,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}
