package firebase

import (
	"context"
	"fmt"
	"strings"

	"cloud.google.com/go/firestore"
	fb "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"
)

type AppConfig struct {
	ProjectID       string
	CredentialsFile string
	CredentialsJSON string
}

// NewApp builds the Firebase app. Without explicit credentials the Google
// application default credentials are used.
func NewApp(ctx context.Context, cfg AppConfig) (*fb.App, error) {
	opts := make([]option.ClientOption, 0, 1)
	switch {
	case strings.TrimSpace(cfg.CredentialsJSON) != "":
		opts = append(opts, option.WithCredentialsJSON([]byte(cfg.CredentialsJSON)))
	case strings.TrimSpace(cfg.CredentialsFile) != "":
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	app, err := fb.NewApp(ctx, &fb.Config{ProjectID: cfg.ProjectID}, opts...)
	if err != nil {
		return nil, fmt.Errorf("init firebase app project=%s: %w", cfg.ProjectID, err)
	}
	return app, nil
}

func NewAuthClient(ctx context.Context, app *fb.App) (*auth.Client, error) {
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("init firebase auth: %w", err)
	}
	return client, nil
}

func NewFirestoreClient(ctx context.Context, app *fb.App) (*firestore.Client, error) {
	client, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("init firestore: %w", err)
	}
	return client, nil
}
