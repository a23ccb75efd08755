package store

import (
	"context"
	"fmt"
	"strings"

	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
	"github.com/googleapis/gax-go/v2"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/GregMSThompson/lithic-dashboard/internal/errs"
)

// Secrets path
// projects/{project}/secrets/{secret}/versions/latest

type secretAccessor interface {
	AccessSecretVersion(ctx context.Context, req *secretmanagerpb.AccessSecretVersionRequest, opts ...gax.CallOption) (*secretmanagerpb.AccessSecretVersionResponse, error)
}

type secretsStore struct {
	client    secretAccessor
	projectID string
}

func NewSecretsStore(client secretAccessor, projectID string) *secretsStore {
	return &secretsStore{client: client, projectID: projectID}
}

// versionName accepts a bare secret id or a full resource name, with or
// without a version.
func (s *secretsStore) versionName(secret string) string {
	if strings.HasPrefix(secret, "projects/") {
		if strings.Contains(secret, "/versions/") {
			return secret
		}
		return secret + "/versions/latest"
	}
	return fmt.Sprintf("projects/%s/secrets/%s/versions/latest", s.projectID, secret)
}

// GetAPIKey reads the Lithic API key stored in the given secret.
func (s *secretsStore) GetAPIKey(ctx context.Context, secret string) (string, error) {
	res, err := s.client.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{
		Name: s.versionName(secret),
	})
	if status.Code(err) == codes.NotFound {
		return "", errs.NewNotFoundError(fmt.Sprintf("secret %s not found", secret))
	}
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(res.GetPayload().GetData())), nil
}
