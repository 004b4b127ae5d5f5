package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"time"

	"nemo-ecommerce/internal/client"
	"nemo-ecommerce/internal/logger"
	"nemo-ecommerce/internal/model"
	"nemo-ecommerce/internal/utils"
)

// Runs create, get, update, delete, get against a live server and exits non-zero on the first surprise.
func main() {
	baseURL := flag.String("url", envOr("EXTERNAL_HTTP", "http://localhost:5000"), "server base URL")
	timeout := flag.Duration("timeout", 5*time.Second, "per-request timeout")
	flag.Parse()

	ctx := context.Background()
	logger.Setup(logger.Options{Format: envOr("LOG_FORMAT", "TEXT"), Level: "INFO"})

	products := client.NewProductClient(client.NewHTTPClient(*baseURL, *timeout))
	if err := run(ctx, products); err != nil {
		logger.Error(ctx, "Smoke test failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info(ctx, "Smoke test passed", slog.String("target", *baseURL))
}

func run(ctx context.Context, products *client.ProductClient) error {
	banner, err := products.Ping(ctx)
	if err != nil {
		return err
	}
	logger.Info(ctx, "Liveness", slog.String("body", banner))

	price := 9.99
	created, err := products.Create(ctx, model.Product{ProductName: "Fin", Price: &price})
	if err != nil {
		return err
	}
	id := created.InsertedID.Hex()
	logger.Info(ctx, "Created", slog.String("id", id))

	got, err := products.Get(ctx, id)
	if err != nil {
		return err
	}
	if got == nil {
		return errors.New("created product not found")
	}
	logger.Info(ctx, "Fetched", slog.String("product", utils.ToJSONString(got)))

	newPrice := 12.5
	updated, err := products.Update(ctx, id, model.ProductUpdate{Price: &newPrice})
	if err != nil {
		return err
	}
	if updated.MatchedCount != 1 {
		return errors.New("update matched no document")
	}
	logger.Info(ctx, "Updated", slog.Int64("matched", updated.MatchedCount), slog.Int64("modified", updated.ModifiedCount))

	deleted, err := products.Delete(ctx, id)
	if err != nil {
		return err
	}
	logger.Info(ctx, deleted.Message, slog.Int64("deleted", deleted.Result.DeletedCount))

	gone, err := products.Get(ctx, id)
	if err != nil {
		return err
	}
	if gone != nil {
		return errors.New("product still present after delete")
	}

	_, err = products.Delete(ctx, id)
	var apiErr *client.APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusNotFound {
		return errors.New("second delete did not answer 404")
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
