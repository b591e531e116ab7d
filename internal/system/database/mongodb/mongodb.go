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

package mongodb

import (
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/wso2/contact-merge-service/internal/system/config"
	"github.com/wso2/contact-merge-service/internal/system/log"
)

const connectTimeout = 10 * time.Second

// MongoDB holds the client and database.
type MongoDB struct {
	Client   *mongo.Client
	Database *mongo.Database
}

var (
	instance *MongoDB
	mu       sync.Mutex
)

// Connect opens the shared MongoDB connection described by cfg, or returns
// the existing one.
func Connect(cfg config.MongoDBConfig) (*MongoDB, error) {

	mu.Lock()
	defer mu.Unlock()
	if instance != nil {
		return instance, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	log.GetLogger().Info("Connected to MongoDB", log.String("database", cfg.Database))
	instance = &MongoDB{
		Client:   client,
		Database: client.Database(cfg.Database),
	}
	return instance, nil
}

// Disconnect closes the shared connection if one is open.
func Disconnect(ctx context.Context) error {

	mu.Lock()
	defer mu.Unlock()
	if instance == nil {
		return nil
	}
	err := instance.Client.Disconnect(ctx)
	instance = nil
	return err
}
