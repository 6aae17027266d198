package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/UnknownOlympus/mnemosyne/internal/config"
	"github.com/UnknownOlympus/mnemosyne/internal/metrics"
	"github.com/UnknownOlympus/mnemosyne/internal/models"
)

// employeeFromDocument maps a stored document onto an Employee without rejecting it: scalar
// fields are rendered as text whatever their BSON type, and fields other than the known ones
// are kept as relaxed extended JSON in Attributes.
func employeeFromDocument(doc bson.Raw) (models.Employee, error) {
	var employee models.Employee

	elements, err := doc.Elements()
	if err != nil {
		return models.Employee{}, fmt.Errorf("failed to read document: %w", err)
	}

	for _, element := range elements {
		value := element.Value()
		switch key := element.Key(); key {
		case "_id":
			employee.ID = documentText(value)
		case "name":
			employee.Name = documentText(value)
		case "email":
			employee.Email = documentText(value)
		case "mobile":
			employee.Mobile = documentText(value)
		default:
			rendered, renderErr := extendedJSON(value)
			if renderErr != nil {
				return models.Employee{}, fmt.Errorf("failed to render field %q: %w", key, renderErr)
			}
			if employee.Attributes == nil {
				employee.Attributes = make(map[string]json.RawMessage)
			}
			employee.Attributes[key] = rendered
		}
	}

	return employee, nil
}

// documentText renders a BSON value as plain text. Composite values fall back to extended JSON.
func documentText(value bson.RawValue) string {
	switch value.Type {
	case bson.TypeString:
		return value.StringValue()
	case bson.TypeObjectID:
		return value.ObjectID().Hex()
	case bson.TypeInt32:
		return strconv.FormatInt(int64(value.Int32()), 10)
	case bson.TypeInt64:
		return strconv.FormatInt(value.Int64(), 10)
	case bson.TypeDouble:
		return strconv.FormatFloat(value.Double(), 'f', -1, 64)
	case bson.TypeDecimal128:
		return value.Decimal128().String()
	case bson.TypeBoolean:
		return strconv.FormatBool(value.Boolean())
	case bson.TypeNull, bson.TypeUndefined:
		return ""
	default:
		if value.Value == nil {
			return ""
		}
		rendered, err := extendedJSON(value)
		if err != nil {
			return value.String()
		}
		return string(rendered)
	}
}

// extendedJSON renders a single BSON value as relaxed extended JSON.
func extendedJSON(value bson.RawValue) (json.RawMessage, error) {
	wrapped, err := bson.MarshalExtJSON(bson.D{{Key: "v", Value: value}}, false, false)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal extended json: %w", err)
	}

	var fields map[string]json.RawMessage
	if err = json.Unmarshal(wrapped, &fields); err != nil {
		return nil, fmt.Errorf("failed to unmarshal extended json: %w", err)
	}

	return fields["v"], nil
}

// MongoRepository stores employee records in a MongoDB collection.
type MongoRepository struct {
	coll    *mongo.Collection
	metrics *metrics.Metrics
}

func NewMongoRepository(coll *mongo.Collection, appMetrics *metrics.Metrics) *MongoRepository {
	return &MongoRepository{coll: coll, metrics: appMetrics}
}

// CountEmployees returns the number of documents in the collection.
func (r *MongoRepository) CountEmployees(ctx context.Context) (int64, error) {
	defer observeQuery(r.metrics, "count_employees")()

	count, err := r.coll.CountDocuments(ctx, bson.D{})
	if err != nil {
		return 0, fmt.Errorf("failed to count employees: %w", err)
	}

	return count, nil
}

// InsertEmployees inserts all employees with a single InsertMany. Keys are assigned by the server.
func (r *MongoRepository) InsertEmployees(ctx context.Context, employees []models.Employee) error {
	defer observeQuery(r.metrics, "insert_employees")()

	docs := make([]any, 0, len(employees))
	for _, employee := range employees {
		docs = append(docs, bson.D{
			{Key: "name", Value: employee.Name},
			{Key: "email", Value: employee.Email},
			{Key: "mobile", Value: employee.Mobile},
		})
	}

	if _, err := r.coll.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("failed to insert employees: %w", err)
	}

	return nil
}

// ListEmployees returns every document of the collection in natural order.
func (r *MongoRepository) ListEmployees(ctx context.Context) ([]models.Employee, error) {
	defer observeQuery(r.metrics, "list_employees")()

	cursor, err := r.coll.Find(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}

	var docs []bson.Raw
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode employees: %w", err)
	}

	employees := make([]models.Employee, 0, len(docs))
	for _, doc := range docs {
		employee, docErr := employeeFromDocument(doc)
		if docErr != nil {
			return nil, fmt.Errorf("failed to decode employees: %w", docErr)
		}
		employees = append(employees, employee)
	}

	return employees, nil
}

// MongoStorage binds a MongoRepository to the client owning its connection pool.
type MongoStorage struct {
	*MongoRepository
	client *mongo.Client
}

// NewMongoStorage connects to MongoDB with a pool bounded by cfg.MaxPoolSize and returns the
// storage for the employee collection of cfg.Name.
func NewMongoStorage(
	ctx context.Context, cfg config.DatabaseConfig, appMetrics *metrics.Metrics,
) (*MongoStorage, error) {
	opts := options.Client().
		ApplyURI(cfg.URI).
		SetMaxPoolSize(cfg.MaxPoolSize).
		SetConnectTimeout(cfg.ConnectTimeout).
		SetServerSelectionTimeout(cfg.ConnectTimeout)

	ctx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection to MongoDB: %w", err)
	}

	if err = client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.WithoutCancel(ctx))
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	coll := client.Database(cfg.Name).Collection(EmployeeCollection)

	return &MongoStorage{MongoRepository: NewMongoRepository(coll, appMetrics), client: client}, nil
}

func (s *MongoStorage) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx, readpref.Primary()); err != nil {
		return fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	return nil
}

func (s *MongoStorage) Close(ctx context.Context) error {
	if err := s.client.Disconnect(ctx); err != nil {
		return fmt.Errorf("failed to disconnect from MongoDB: %w", err)
	}

	return nil
}
