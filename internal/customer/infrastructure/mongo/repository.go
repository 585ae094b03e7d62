package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/hverma21/order-fulfillment-platform/internal/customer/domain"
)

type customerDocument struct {
	ID        string    `bson:"_id"`
	FirstName string    `bson:"first_name"`
	LastName  string    `bson:"last_name"`
	Email     string    `bson:"email"`
	Street    string    `bson:"street"`
	City      string    `bson:"city"`
	ZipCode   string    `bson:"zip_code"`
	CreatedAt time.Time `bson:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"`
}

type Repository struct {
	col *mongo.Collection
}

func NewRepository(client *mongo.Client, dbName string) *Repository {
	col := client.Database(dbName).Collection("customers")

	// Unique email keeps one account per address.
	indexModel := mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, _ = col.Indexes().CreateOne(ctx, indexModel)

	return &Repository{col: col}
}

func (r *Repository) Save(ctx context.Context, c domain.Customer) error {
	doc := customerDocument{
		ID:        c.ID,
		FirstName: c.FirstName,
		LastName:  c.LastName,
		Email:     c.Email,
		Street:    c.Address.Street,
		City:      c.Address.City,
		ZipCode:   c.Address.ZipCode,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
	opts := options.Replace().SetUpsert(true)
	_, err := r.col.ReplaceOne(ctx, bson.M{"_id": c.ID}, doc, opts)
	return err
}

func (r *Repository) FindByID(ctx context.Context, id string) (domain.Customer, error) {
	var doc customerDocument
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return domain.Customer{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Customer{}, err
	}
	return toCustomer(doc), nil
}

func (r *Repository) FindAll(ctx context.Context) ([]domain.Customer, error) {
	cur, err := r.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []domain.Customer
	for cur.Next(ctx) {
		var doc customerDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, toCustomer(doc))
	}
	return out, cur.Err()
}

func (r *Repository) Delete(ctx context.Context, id string) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func toCustomer(doc customerDocument) domain.Customer {
	return domain.Customer{
		ID:        doc.ID,
		FirstName: doc.FirstName,
		LastName:  doc.LastName,
		Email:     doc.Email,
		Address: domain.Address{
			Street:  doc.Street,
			City:    doc.City,
			ZipCode: doc.ZipCode,
		},
		CreatedAt: doc.CreatedAt,
		UpdatedAt: doc.UpdatedAt,
	}
}
