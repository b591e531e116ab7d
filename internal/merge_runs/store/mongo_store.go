/*
 * Copyright (c) 2026, WSO2 LLC. (http://www.wso2.com).
 *
 * WSO2 LLC. licenses this file to you under the Apache License,
 * Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing,
 * software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
 * KIND, either express or implied.  See the License for the
 * specific language governing permissions and limitations
 * under the License.
 */

package store

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/wso2/contact-merge-service/internal/merge_runs/model"
	errors2 "github.com/wso2/contact-merge-service/internal/system/errors"
	"github.com/wso2/contact-merge-service/internal/system/log"
	"github.com/wso2/contact-merge-service/internal/system/pagination"
)

const mongoTimeout = 5 * time.Second

// MongoStore persists merge runs in a MongoDB collection.
type MongoStore struct {
	collection *mongo.Collection
}

// NewMongoStore creates a MongoStore over the given collection.
func NewMongoStore(collection *mongo.Collection) *MongoStore {
	return &MongoStore{collection: collection}
}

func (s *MongoStore) AddMergeRun(run *model.MergeRun) error {

	ctx, cancel := context.WithTimeout(context.Background(), mongoTimeout)
	defer cancel()

	if _, err := s.collection.InsertOne(ctx, run); err != nil {
		log.GetLogger().Debug("Failed to insert merge run", log.String("runId", run.RunId), log.Error(err))
		return newServerError(errors2.ADD_MERGE_RUN, "Failed to insert merge run: "+run.RunId, err)
	}
	return nil
}

func (s *MongoStore) GetMergeRun(tenantId, runId string) (*model.MergeRun, error) {

	ctx, cancel := context.WithTimeout(context.Background(), mongoTimeout)
	defer cancel()

	var run model.MergeRun
	err := s.collection.FindOne(ctx, bson.M{"tenant_id": tenantId, "run_id": runId}).Decode(&run)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		log.GetLogger().Debug("Failed to fetch merge run", log.String("runId", runId), log.Error(err))
		return nil, newServerError(errors2.GET_MERGE_RUN, "Failed to fetch merge run: "+runId, err)
	}
	return &run, nil
}

func (s *MongoStore) ListMergeRuns(tenantId string, limit int,
	after *pagination.RunCursor) ([]model.MergeRunSummary, error) {

	ctx, cancel := context.WithTimeout(context.Background(), mongoTimeout)
	defer cancel()

	filter := bson.M{"tenant_id": tenantId}
	if after != nil {
		filter["$or"] = bson.A{
			bson.M{"created_at": bson.M{"$lt": after.CreatedAt}},
			bson.M{"created_at": after.CreatedAt, "run_id": bson.M{"$gt": after.RunId}},
		}
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "run_id", Value: 1}}).
		SetProjection(bson.M{"output": 0, "log": 0, "warnings": 0})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	cursor, err := s.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, newServerError(errors2.GET_MERGE_RUNS, "Failed to fetch merge runs of tenant: "+tenantId, err)
	}
	defer cursor.Close(ctx)

	summaries := []model.MergeRunSummary{}
	if err := cursor.All(ctx, &summaries); err != nil {
		return nil, newServerError(errors2.GET_MERGE_RUNS, "Failed to decode merge runs of tenant: "+tenantId, err)
	}
	return summaries, nil
}

func (s *MongoStore) DeleteMergeRun(tenantId, runId string) (bool, error) {

	ctx, cancel := context.WithTimeout(context.Background(), mongoTimeout)
	defer cancel()

	res, err := s.collection.DeleteOne(ctx, bson.M{"tenant_id": tenantId, "run_id": runId})
	if err != nil {
		return false, newServerError(errors2.DELETE_MERGE_RUN, "Failed to delete merge run: "+runId, err)
	}
	return res.DeletedCount > 0, nil
}

func (s *MongoStore) DeleteMergeRunsBefore(cutoff int64) (int64, error) {

	ctx, cancel := context.WithTimeout(context.Background(), mongoTimeout)
	defer cancel()

	res, err := s.collection.DeleteMany(ctx, bson.M{"created_at": bson.M{"$lt": cutoff}})
	if err != nil {
		return 0, newServerError(errors2.DELETE_MERGE_RUN, "Failed to delete expired merge runs.", err)
	}
	return res.DeletedCount, nil
}

func (s *MongoStore) Ping() error {

	ctx, cancel := context.WithTimeout(context.Background(), mongoTimeout)
	defer cancel()

	if err := s.collection.Database().Client().Ping(ctx, nil); err != nil {
		return newServerError(errors2.MONGO_OPERATION, "Failed to ping MongoDB.", err)
	}
	return nil
}
