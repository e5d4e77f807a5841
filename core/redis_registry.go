package core

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

// DescriptorRecord is the wire form of a descriptor snapshot published
// to Redis. It carries only the fields peer nodes need to list and
// place views; the live descriptor never leaves its owning process.
type DescriptorRecord struct {
	ID          string           `json:"id"`
	Title       string           `json:"title"`
	NodeID      string           `json:"node_id"`
	Sections    []string         `json:"sections,omitempty"`
	Categories  []string         `json:"categories,omitempty"`
	Layout      WidgetLayoutType `json:"layout,omitempty"`
	Description string           `json:"description,omitempty"`
	IsWidget    bool             `json:"is_widget"`
	IsPage      bool             `json:"is_page"`
	IsGlobal    bool             `json:"is_global"`
	PublishedAt time.Time        `json:"published_at"`
}

// RedisViewRegistry publishes descriptor snapshots to Redis so every
// console node in a cluster can list the plugin views contributed on
// its peers. Records expire unless refreshed, so a node that dies takes
// its views out of the shared listing with it.
type RedisViewRegistry struct {
	client    *redis.Client
	namespace string
	nodeID    string
	ttl       time.Duration
	logger    Logger
}

// NewRedisViewRegistry creates a snapshot publisher with the default
// namespace.
func NewRedisViewRegistry(redisURL string) (*RedisViewRegistry, error) {
	return NewRedisViewRegistryWithNamespace(redisURL, DefaultSnapshotNamespace)
}

// NewRedisViewRegistryWithNamespace creates a snapshot publisher whose
// keys are isolated under the given namespace.
func NewRedisViewRegistryWithNamespace(redisURL, namespace string) (*RedisViewRegistry, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid Redis URL: %w", ErrInvalidConfiguration)
	}

	opt.PoolSize = 10
	opt.MinIdleConns = 2
	opt.MaxRetries = 3
	opt.MinRetryBackoff = 100 * time.Millisecond
	opt.MaxRetryBackoff = time.Second
	opt.DialTimeout = 5 * time.Second
	opt.ReadTimeout = 5 * time.Second
	opt.WriteTimeout = 5 * time.Second

	client := redis.NewClient(opt)

	for i := 0; i < 3; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err = client.Ping(ctx).Err()
		cancel()
		if err == nil {
			break
		}
		if i < 2 {
			time.Sleep(time.Duration(i+1) * time.Second)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Redis after retries: %w", ErrConnectionFailed)
	}

	return &RedisViewRegistry{
		client:    client,
		namespace: namespace,
		nodeID:    fmt.Sprintf("console-%s", uuid.New().String()[:8]),
		ttl:       DefaultSnapshotTTL,
		logger:    &NoOpLogger{},
	}, nil
}

// SetLogger sets the logger for the publisher.
func (r *RedisViewRegistry) SetLogger(logger Logger) {
	if logger != nil {
		r.logger = logger
	}
}

// SetTTL overrides the snapshot record TTL.
func (r *RedisViewRegistry) SetTTL(ttl time.Duration) {
	if ttl > 0 {
		r.ttl = ttl
	}
}

// NodeID returns the identity this publisher stamps on its records.
func (r *RedisViewRegistry) NodeID() string {
	return r.nodeID
}

// Close releases the underlying Redis connection pool.
func (r *RedisViewRegistry) Close() error {
	return r.client.Close()
}

// Publish writes the descriptor's snapshot record and its section and
// category index entries in one transaction, so peers never observe a
// record missing from an index it belongs to.
func (r *RedisViewRegistry) Publish(ctx context.Context, d *ViewDescriptor) error {
	if d == nil {
		return NewRegistryError("snapshot.Publish", "view", ErrNilView)
	}

	record := newDescriptorRecord(d, r.nodeID)
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal descriptor record for %s: %w", d.ID(), err)
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, r.viewKey(d.ID()), data, r.ttl)
	for _, section := range record.Sections {
		key := r.sectionKey(section)
		pipe.SAdd(ctx, key, d.ID())
		pipe.Expire(ctx, key, r.ttl*2)
	}
	for _, category := range record.Categories {
		key := r.categoryKey(category)
		pipe.SAdd(ctx, key, d.ID())
		pipe.Expire(ctx, key, r.ttl*2)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		r.logger.Error("Failed to publish descriptor snapshot", map[string]interface{}{
			"error":   err,
			"view_id": d.ID(),
			"node_id": r.nodeID,
		})
		return fmt.Errorf("failed to publish snapshot for %s: %w", d.ID(), err)
	}

	r.logger.Debug("Descriptor snapshot published", map[string]interface{}{
		"view_id":  d.ID(),
		"node_id":  r.nodeID,
		"sections": record.Sections,
		"ttl":      r.ttl.String(),
	})
	return nil
}

// Withdraw removes the snapshot record for id and drops it from every
// index it was published under.
func (r *RedisViewRegistry) Withdraw(ctx context.Context, id string) error {
	record, err := r.Get(ctx, id)
	if err != nil {
		return err
	}

	pipe := r.client.TxPipeline()
	for _, section := range record.Sections {
		pipe.SRem(ctx, r.sectionKey(section), id)
	}
	for _, category := range record.Categories {
		pipe.SRem(ctx, r.categoryKey(category), id)
	}
	pipe.Del(ctx, r.viewKey(id))
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to withdraw snapshot for %s: %w", id, err)
	}

	r.logger.Debug("Descriptor snapshot withdrawn", map[string]interface{}{
		"view_id": id,
		"node_id": r.nodeID,
	})
	return nil
}

// Get returns the published record for id.
func (r *RedisViewRegistry) Get(ctx context.Context, id string) (*DescriptorRecord, error) {
	data, err := r.client.Get(ctx, r.viewKey(id)).Result()
	if err == redis.Nil {
		return nil, &RegistryError{Op: "snapshot.Get", Kind: "view", ID: id, Err: ErrViewNotFound}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get snapshot for %s: %w", id, err)
	}

	var record DescriptorRecord
	if err := json.Unmarshal([]byte(data), &record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal snapshot for %s: %w", id, err)
	}
	return &record, nil
}

// ListSection returns the published records indexed under section,
// skipping ids whose record expired between the index read and the
// record read.
func (r *RedisViewRegistry) ListSection(ctx context.Context, section string) ([]*DescriptorRecord, error) {
	return r.list(ctx, r.sectionKey(section))
}

// ListCategory returns the published records indexed under category.
func (r *RedisViewRegistry) ListCategory(ctx context.Context, category string) ([]*DescriptorRecord, error) {
	return r.list(ctx, r.categoryKey(category))
}

func (r *RedisViewRegistry) list(ctx context.Context, indexKey string) ([]*DescriptorRecord, error) {
	ids, err := r.client.SMembers(ctx, indexKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot index %s: %w", indexKey, err)
	}

	var records []*DescriptorRecord
	for _, id := range ids {
		record, err := r.Get(ctx, id)
		if err != nil {
			if IsNotFound(err) {
				continue
			}
			return nil, err
		}
		records = append(records, record)
	}
	return records, nil
}

// Refresh re-arms the TTL on the record for id and its indexes. Called
// periodically by StartRefresh while the owning node is alive.
func (r *RedisViewRegistry) Refresh(ctx context.Context, id string) error {
	record, err := r.Get(ctx, id)
	if err != nil {
		return err
	}

	pipe := r.client.TxPipeline()
	pipe.Expire(ctx, r.viewKey(id), r.ttl)
	for _, section := range record.Sections {
		pipe.Expire(ctx, r.sectionKey(section), r.ttl*2)
	}
	for _, category := range record.Categories {
		pipe.Expire(ctx, r.categoryKey(category), r.ttl*2)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to refresh snapshot for %s: %w", id, err)
	}
	return nil
}

// StartRefresh keeps the record for id alive until ctx is canceled,
// refreshing at half the TTL. Failures are logged and retried on the
// next tick; a record that expired in between is republished by the
// next Publish from the owning registry, not here.
func (r *RedisViewRegistry) StartRefresh(ctx context.Context, id string) {
	ticker := time.NewTicker(r.ttl / 2)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := r.Refresh(ctx, id); err != nil {
					r.logger.Warn("Failed to refresh descriptor snapshot", map[string]interface{}{
						"error":   err,
						"view_id": id,
						"node_id": r.nodeID,
					})
				}
			}
		}
	}()
}

func (r *RedisViewRegistry) viewKey(id string) string {
	return fmt.Sprintf("%s:views:%s", r.namespace, id)
}

func (r *RedisViewRegistry) sectionKey(section string) string {
	return fmt.Sprintf("%s:sections:%s", r.namespace, section)
}

func (r *RedisViewRegistry) categoryKey(category string) string {
	return fmt.Sprintf("%s:categories:%s", r.namespace, category)
}

func newDescriptorRecord(d *ViewDescriptor, nodeID string) *DescriptorRecord {
	return &DescriptorRecord{
		ID:          d.ID(),
		Title:       d.Title(),
		NodeID:      nodeID,
		Sections:    d.Sections(),
		Categories:  d.WidgetCategories(),
		Layout:      d.WidgetLayout(),
		Description: d.Description(),
		IsWidget:    d.IsWidget(),
		IsPage:      d.IsPage(),
		IsGlobal:    d.IsGlobal(),
		PublishedAt: time.Now().UTC(),
	}
}
