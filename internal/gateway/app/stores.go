package app

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"refactorengine/internal/artifact"
	"refactorengine/internal/config"
)

// initArtifactStore picks the S3 store when an endpoint is configured and the
// in-memory store otherwise.
func initArtifactStore(cfg *config.Config, log logrus.FieldLogger) (artifact.Store, error) {
	if !cfg.Artifact.Enabled {
		log.Info("artifact store: memory")
		return artifact.NewMemoryStore(), nil
	}
	s3Cfg := artifact.S3Config{
		Endpoint:  cfg.Artifact.Endpoint,
		Region:    cfg.Artifact.Region,
		AccessKey: cfg.Artifact.AccessKey,
		SecretKey: cfg.Artifact.SecretKey,
		Bucket:    cfg.Artifact.Bucket,
		UseSSL:    cfg.Artifact.UseSSL,
	}
	store, err := artifact.NewS3Store(s3Cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize artifact s3 store: %w", err)
	}
	log.WithFields(logrus.Fields{"bucket": s3Cfg.Bucket, "endpoint": s3Cfg.Endpoint}).Info("artifact store: s3")
	return store, nil
}
