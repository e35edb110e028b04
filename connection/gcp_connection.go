package connection

import (
	"context"
	"fmt"
	"os"

	"github.com/mitchellh/go-homedir"
	"google.golang.org/api/impersonate"
	"google.golang.org/api/option"
)

// GcpConnection is the `connection` block of a gcp_storage_bucket source
type GcpConnection struct {
	Project      *string `hcl:"project,optional"`
	Credentials  *string `hcl:"credentials,optional"`
	QuotaProject *string `hcl:"quota_project,optional"`
	Impersonate  *string `hcl:"impersonate,optional"`
}

func (c *GcpConnection) Validate() error {
	return nil
}

func (c *GcpConnection) Identifier() string {
	return "gcp"
}

// GetProject returns the configured project, falling back to the CLOUDSDK_CORE_PROJECT and GCP_PROJECT env vars
func (c *GcpConnection) GetProject() string {
	if c.Project != nil {
		return *c.Project
	}
	for _, envVar := range []string{"CLOUDSDK_CORE_PROJECT", "GCP_PROJECT"} {
		if val, exists := os.LookupEnv(envVar); exists {
			return val
		}
	}
	return ""
}

func (c *GcpConnection) GetClientOptions(ctx context.Context) ([]option.ClientOption, error) {
	var opts []option.ClientOption

	if c.Credentials != nil {
		contents, err := PathOrContents(*c.Credentials)
		if err != nil {
			return nil, fmt.Errorf("error reading credentials file: %w", err)
		}
		opts = append(opts, option.WithCredentialsJSON([]byte(contents)))
	}

	quotaProject := os.Getenv("GOOGLE_CLOUD_QUOTA_PROJECT")
	if c.QuotaProject != nil {
		quotaProject = *c.QuotaProject
	}
	if quotaProject != "" {
		opts = append(opts, option.WithQuotaProject(quotaProject))
	}

	// impersonation of a service account
	if c.Impersonate != nil {
		ts, err := impersonate.CredentialsTokenSource(ctx, impersonate.CredentialsConfig{
			TargetPrincipal: *c.Impersonate,
			Scopes:          []string{"https://www.googleapis.com/auth/cloud-platform"},
		})
		if err != nil {
			return nil, fmt.Errorf("error creating impersonation token source: %w", err)
		}
		opts = append(opts, option.WithTokenSource(ts))
	}
	return opts, nil
}

// PathOrContents returns the contents of the file if the input is an existing path (with ~ expanded),
// otherwise the input itself. An absolute path which does not exist is an error.
func PathOrContents(in string) (string, error) {
	if len(in) == 0 {
		return "", nil
	}

	filePath, err := homedir.Expand(in)
	if err != nil {
		return "", err
	}

	if _, err := os.Stat(filePath); err == nil {
		contents, err := os.ReadFile(filePath)
		if err != nil {
			return "", err
		}
		return string(contents), nil
	}

	if len(filePath) > 1 && (filePath[0] == '/' || filePath[0] == '\\') {
		return "", fmt.Errorf("%s: no such file or dir", filePath)
	}

	return in, nil
}
