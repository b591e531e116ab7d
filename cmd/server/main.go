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

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"github.com/wso2/contact-merge-service/internal/merge_runs/store"
	"github.com/wso2/contact-merge-service/internal/system/config"
	"github.com/wso2/contact-merge-service/internal/system/constants"
	"github.com/wso2/contact-merge-service/internal/system/database/mongodb"
	"github.com/wso2/contact-merge-service/internal/system/database/provider"
	"github.com/wso2/contact-merge-service/internal/system/log"
	"github.com/wso2/contact-merge-service/internal/system/managers"
	"github.com/wso2/contact-merge-service/internal/system/schedulers"
	"github.com/wso2/contact-merge-service/internal/system/security"
)

const (
	configFile = "repository/conf/deployment.yaml"
	schemaFile = "dbscripts/postgres/schema.sql"
)

func main() {
	serviceHome := getServiceHome()

	envFiles, err := filepath.Glob(filepath.Join(serviceHome, "config", "*.env"))
	if err == nil && len(envFiles) > 0 {
		_ = godotenv.Load(envFiles...)
	}

	// Load the configuration file
	serviceConfig, err := config.LoadConfig(serviceHome, configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	if err := config.InitializeRuntime(serviceHome, serviceConfig); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize runtime: %v\n", err)
		os.Exit(1)
	}

	if err := log.Init(serviceConfig.Log.LogLevel); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	logger := log.GetLogger()

	if err := initDatastore(serviceHome, serviceConfig); err != nil {
		logger.Error("Failed to initialize datastore", log.String("type", serviceConfig.Datastore.Type), log.Error(err))
		os.Exit(1)
	}

	schedulerCtx, stopSchedulers := context.WithCancel(context.Background())
	defer stopSchedulers()
	if serviceConfig.Retention.MaxAgeHours > 0 {
		go schedulers.StartRetentionScheduler(schedulerCtx, store.GetMergeRunStore(),
			time.Duration(serviceConfig.Retention.IntervalMinutes)*time.Minute,
			time.Duration(serviceConfig.Retention.MaxAgeHours)*time.Hour)
	}

	serverAddr := fmt.Sprintf("%s:%d", serviceConfig.Addr.Host, serviceConfig.Addr.Port)
	handler := security.CORS(serviceConfig.Auth.CORSAllowedOrigins, initMultiplexer())

	ln, err := net.Listen("tcp", serverAddr)
	if err != nil {
		logger.Error("Failed to start listener", log.String("address", serverAddr), log.Error(err))
		os.Exit(1)
	}

	server := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Contact merge service started", log.String("address", serverAddr),
			log.String("datastore", serviceConfig.Datastore.Type))
		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Failed to serve requests", log.Error(err))
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	logger.Info("Shutting down contact merge service")
	stopSchedulers()
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Graceful shutdown failed", log.Error(err))
	}
	closeDatastore(ctx, serviceConfig)
}

// initDatastore installs the merge run store for the configured datastore.
func initDatastore(serviceHome string, cfg *config.Config) error {

	runStore, err := store.NewMergeRunStore(*cfg)
	if err != nil {
		return err
	}
	if cfg.Datastore.Type == constants.DatastorePostgres {
		dbClient, err := provider.NewDBProvider().GetDBClient()
		if err != nil {
			return err
		}
		if err := dbClient.InitDatabase(serviceHome, schemaFile); err != nil {
			return err
		}
	}
	store.SetMergeRunStore(runStore)
	return nil
}

func closeDatastore(ctx context.Context, cfg *config.Config) {

	logger := log.GetLogger()
	switch cfg.Datastore.Type {
	case constants.DatastorePostgres:
		if err := provider.Close(); err != nil {
			logger.Warn("Failed to close database pool", log.Error(err))
		}
	case constants.DatastoreMongoDB:
		if err := mongodb.Disconnect(ctx); err != nil {
			logger.Warn("Failed to disconnect from MongoDB", log.Error(err))
		}
	}
}

// initMultiplexer initializes the HTTP multiplexer and registers the services.
func initMultiplexer() *http.ServeMux {

	mux := http.NewServeMux()
	serviceManager := managers.NewServiceManager(mux)

	// Register the services.
	if err := serviceManager.RegisterServices(constants.ApiBasePath); err != nil {
		log.GetLogger().Error("Failed to register the services", log.Error(err))
	}
	return mux
}

func getServiceHome() string {

	// Parse project directory from command line arguments.
	homeFlag := flag.String("serviceHome", "", "Path to contact merge service home directory")
	flag.Parse()

	if *homeFlag != "" {
		return *homeFlag
	}
	// If no command line argument is provided, use the current working directory.
	dir, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to get current working directory: %v\n", err)
		os.Exit(1)
	}
	return dir
}
