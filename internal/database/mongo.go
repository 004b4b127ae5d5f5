package database

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"nemo-ecommerce/internal/logger"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.opentelemetry.io/contrib/instrumentation/go.mongodb.org/mongo-driver/mongo/otelmongo"
)

var ErrNotConfigured = errors.New("mongo connection string is empty")

const pingTimeout = 5 * time.Second

// ConnectFunc opens and verifies a client.
type ConnectFunc func(ctx context.Context, uri string) (*mongo.Client, error)

// Provider owns the single Mongo client of the process. The connection is made
// on first use; concurrent first callers wait for the same attempt, and a failed
// attempt is retried by the next caller.
type Provider struct {
	uri     string
	dbName  string
	connect ConnectFunc

	mu       sync.Mutex
	client   *mongo.Client
	database *mongo.Database
}

func NewProvider(uri, dbName string) *Provider {
	return &Provider{
		uri:     uri,
		dbName:  dbName,
		connect: Connect,
	}
}

// WithConnectFunc swaps the dialer, mainly for tests.
func (p *Provider) WithConnectFunc(fn ConnectFunc) *Provider {
	p.connect = fn
	return p
}

// Connect dials MongoDB with tracing enabled and pings it.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	opts := options.Client().
		ApplyURI(uri).
		SetServerAPIOptions(options.ServerAPI(options.ServerAPIVersion1).SetStrict(true).SetDeprecationErrors(true)).
		SetMonitor(otelmongo.NewMonitor())

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping: %w", err)
	}
	return client, nil
}

// init returns the handles read under the lock, so a concurrent Close cannot race the caller.
func (p *Provider) init(ctx context.Context) (*mongo.Client, *mongo.Database, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.database != nil {
		return p.client, p.database, nil
	}
	if p.uri == "" {
		return nil, nil, ErrNotConfigured
	}

	client, err := p.connect(ctx, p.uri)
	if err != nil {
		logger.Error(ctx, "Failed to connect to MongoDB", slog.String("error", err.Error()))
		return nil, nil, err
	}

	p.client = client
	p.database = client.Database(p.dbName)
	logger.Info(ctx, "Connected to MongoDB successfully", slog.String("database", p.dbName))
	return p.client, p.database, nil
}

// Database returns the database handle, connecting first if needed.
func (p *Provider) Database(ctx context.Context) (*mongo.Database, error) {
	_, db, err := p.init(ctx)
	return db, err
}

// Collection is a shortcut for Database(ctx).Collection(name).
func (p *Provider) Collection(ctx context.Context, name string) (*mongo.Collection, error) {
	db, err := p.Database(ctx)
	if err != nil {
		return nil, err
	}
	return db.Collection(name), nil
}

// Client returns the client, connecting first if needed.
func (p *Provider) Client(ctx context.Context) (*mongo.Client, error) {
	client, _, err := p.init(ctx)
	return client, err
}

// Close disconnects the client if one was opened.
func (p *Provider) Close(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.client == nil {
		return nil
	}
	err := p.client.Disconnect(ctx)
	p.client = nil
	p.database = nil
	return err
}
