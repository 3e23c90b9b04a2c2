package repository

import (
	"context"
	"time"

	"sitesurvey/internal/survey/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoRecordRepository struct {
	Records *mongo.Collection
}

func NewMongoRecordRepository(db *mongo.Database, collectionName string) *MongoRecordRepository {
	return &MongoRecordRepository{
		Records: db.Collection(collectionName),
	}
}

func (r *MongoRecordRepository) EnsureIndexes(ctx context.Context) error {
	// 1. Owner listing index: (owner_uid, created_at desc) for the per-user view
	idxOwner := mongo.IndexModel{
		Keys: bson.D{
			{Key: "owner_uid", Value: 1},
			{Key: "created_at", Value: -1},
		},
		Options: options.Index().SetName("owner_created_desc"),
	}

	// 2. Admin view is the whole collection sorted by created_at desc
	idxCreated := mongo.IndexModel{
		Keys:    bson.D{{Key: "created_at", Value: -1}},
		Options: options.Index().SetName("created_desc"),
	}

	// 3. Police station filter
	idxStation := mongo.IndexModel{
		Keys:    bson.D{{Key: "police_station", Value: 1}},
		Options: options.Index().SetName("police_station"),
	}

	_, err := r.Records.Indexes().CreateMany(ctx, []mongo.IndexModel{idxOwner, idxCreated, idxStation})
	return err
}

func (r *MongoRecordRepository) CreateRecord(ctx context.Context, rec *model.SurveyRecord) error {
	now := time.Now()
	rec.CreatedAt = now
	rec.UpdatedAt = now
	if rec.ID == "" {
		rec.ID = primitive.NewObjectID().Hex()
	}

	_, err := r.Records.InsertOne(ctx, rec)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

func (r *MongoRecordRepository) GetRecord(ctx context.Context, id string) (*model.SurveyRecord, error) {
	var rec model.SurveyRecord
	err := r.Records.FindOne(ctx, bson.M{"_id": id}).Decode(&rec)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// GetRecords fetches records by id in one query and reorders them to match
// the input; ids with no document are silently dropped (the export pipeline
// reports per-record failures only for records it actually starts).
func (r *MongoRecordRepository) GetRecords(ctx context.Context, ids []string) ([]*model.SurveyRecord, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	cursor, err := r.Records.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	byID := make(map[string]*model.SurveyRecord, len(ids))
	for cursor.Next(ctx) {
		var rec model.SurveyRecord
		if err := cursor.Decode(&rec); err != nil {
			return nil, err
		}
		byID[rec.ID] = &rec
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}

	ordered := make([]*model.SurveyRecord, 0, len(ids))
	for _, id := range ids {
		if rec, ok := byID[id]; ok {
			ordered = append(ordered, rec)
		}
	}
	return ordered, nil
}

func (r *MongoRecordRepository) ListRecords(ctx context.Context, filter model.RecordFilter) ([]*model.SurveyRecord, int64, error) {
	query := bson.M{}
	if filter.OwnerUID != "" {
		query["owner_uid"] = filter.OwnerUID
	}
	if filter.PoliceStation != "" {
		query["police_station"] = filter.PoliceStation
	}

	total, err := r.Records.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, err
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 {
		pageSize = model.DefaultPageSize
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64((page - 1) * pageSize)).
		SetLimit(int64(pageSize))

	cursor, err := r.Records.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var records []*model.SurveyRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, 0, err
	}
	return records, total, nil
}

func (r *MongoRecordRepository) PatchRecord(ctx context.Context, id string, patch *model.RecordPatch) error {
	set := bson.M{"updated_at": time.Now()}

	// The patch struct's bson tags mirror the document fields, so marshal it
	// once and fold the set pointers into $set.
	raw, err := bson.Marshal(patch)
	if err != nil {
		return err
	}
	var fields bson.M
	if err := bson.Unmarshal(raw, &fields); err != nil {
		return err
	}
	for k, v := range fields {
		set[k] = v
	}

	res, err := r.Records.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoRecordRepository) DeleteRecord(ctx context.Context, id string) error {
	res, err := r.Records.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
