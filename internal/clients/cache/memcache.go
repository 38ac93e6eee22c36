package cache

import (
	"github.com/pkg/errors"

	"go.uber.org/zap"
	"max.ks1230/finance-dashboard/internal/logger"

	"github.com/bradfitz/gomemcache/memcache"
)

// MemcacheClient caches rendered reports per session. A report is keyed by
// (session, kind) and must be invalidated on any mutation of the session
// state it was derived from.
type MemcacheClient struct {
	client *memcache.Client
}

type config interface {
	Hosts() []string
}

func NewMemcache(config config) (*MemcacheClient, error) {
	logger.Info("memcached hosts", zap.Strings("hosts", config.Hosts()))
	mc := memcache.New(config.Hosts()...)
	return &MemcacheClient{mc}, mc.Ping()
}

func formatKey(sessionID, kind string) string {
	return sessionID + ":" + kind
}

func (mc *MemcacheClient) CacheReport(sessionID, kind, report string) error {
	logger.Info("cache report", zap.String("session", sessionID), zap.String("kind", kind))
	return mc.client.Set(&memcache.Item{
		Key:   formatKey(sessionID, kind),
		Value: []byte(report)},
	)
}

func (mc *MemcacheClient) GetReport(sessionID, kind string) (string, error) {
	logger.Info("get report from cache", zap.String("session", sessionID), zap.String("kind", kind))
	item, err := mc.client.Get(formatKey(sessionID, kind))
	if err != nil {
		return "", err
	}
	return string(item.Value), nil
}

func (mc *MemcacheClient) InvalidateCache(sessionID string, kinds []string) error {
	logger.Info("invalidate cache", zap.String("session", sessionID))

	for _, kind := range kinds {
		err := mc.client.Delete(formatKey(sessionID, kind))
		if err != nil && !errors.Is(err, memcache.ErrCacheMiss) {
			return err
		}
	}
	return nil
}
