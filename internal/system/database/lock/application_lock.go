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

package lock

import (
	"database/sql"
	"fmt"
	"hash/fnv"

	"github.com/wso2/contact-merge-service/internal/system/database/provider"
	"github.com/wso2/contact-merge-service/internal/system/database/scripts"
	"github.com/wso2/contact-merge-service/internal/system/errors"
	"github.com/wso2/contact-merge-service/internal/system/log"
)

// DistributedLock runs work that must not overlap across service instances.
type DistributedLock interface {
	// RunExclusive runs fn when the lock for key is free and reports whether it ran.
	RunExclusive(key string, fn func(tx *sql.Tx) error) (bool, error)
}

// PostgresLock implements DistributedLock using transaction scoped
// PostgreSQL advisory locks, released on commit or rollback.
type PostgresLock struct {
	provider provider.DBProviderInterface
}

func NewPostgresLock() *PostgresLock {
	return &PostgresLock{provider: provider.NewDBProvider()}
}

// generateLockKey hashes key into the bigint space of pg advisory locks.
func generateLockKey(key string) (int64, error) {

	h := fnv.New64a()
	if _, err := h.Write([]byte(key)); err != nil {
		errorMsg := fmt.Sprintf("failed to hash lock key '%s'", key)
		log.GetLogger().Debug(errorMsg, log.Error(err))
		return 0, errors.NewServerError(errors.ErrorMessage{
			Code:        errors.LOCK_KEY_GEN.Code,
			Message:     errors.LOCK_KEY_GEN.Message,
			Description: errorMsg,
		}, err)
	}
	return int64(h.Sum64()), nil
}

func (l *PostgresLock) RunExclusive(key string, fn func(tx *sql.Tx) error) (bool, error) {

	logger := log.GetLogger()
	dbClient, err := l.provider.GetDBClient()
	if err != nil {
		errorMsg := "Failed during DB client creation for advisory lock acquiring."
		logger.Debug(errorMsg, log.Error(err))
		return false, errors.NewServerError(errors.ErrorMessage{
			Code:        errors.DB_CLIENT_INIT.Code,
			Message:     errors.DB_CLIENT_INIT.Message,
			Description: errorMsg,
		}, err)
	}
	lockID, err := generateLockKey(key)
	if err != nil {
		return false, err
	}

	tx, err := dbClient.BeginTx()
	if err != nil {
		return false, lockError("Failed to begin advisory lock transaction.", err)
	}

	var acquired bool
	if err := tx.QueryRow(scripts.TryAdvisoryXactLock["postgres"], lockID).Scan(&acquired); err != nil {
		_ = tx.Rollback()
		return false, lockError("Failed to execute pg_try_advisory_xact_lock.", err)
	}
	if !acquired {
		_ = tx.Rollback()
		logger.Debug("Advisory lock held by another session", log.String("key", key))
		return false, nil
	}

	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return true, err
	}
	if err := tx.Commit(); err != nil {
		return true, lockError("Failed to commit advisory lock transaction.", err)
	}
	logger.Debug("Advisory lock released", log.String("key", key), log.Any("lockId", lockID))
	return true, nil
}

func lockError(errorMsg string, err error) error {
	log.GetLogger().Debug(errorMsg, log.Error(err))
	return errors.NewServerError(errors.ErrorMessage{
		Code:        errors.LOCK_ACQUIRE.Code,
		Message:     errors.LOCK_ACQUIRE.Message,
		Description: errorMsg,
	}, err)
}
