// Where: cli/internal/cfn/keys.go
// What: Logical ID and S3 object key derivation.
// Why: One place decides how identities map to template and bucket names.
package cfn

import (
	"fmt"

	"github.com/tlaloc-dev/tlaloc/cli/internal/config"
	"github.com/tlaloc-dev/tlaloc/cli/internal/graph"
	"github.com/tlaloc-dev/tlaloc/cli/internal/identity"
	"github.com/tlaloc-dev/tlaloc/cli/internal/meta"
)

// Logical ID prefixes. Identities are hex, so a letter prefix keeps IDs
// valid and tells resource kinds apart in stack events.
func ResourceLogicalID(id identity.Identity) string {
	return "Resource" + id.String()
}

func MethodLogicalID(id identity.Identity) string {
	return "Method" + id.String()
}

func CorsLogicalID(id identity.Identity) string {
	return "Cors" + id.String()
}

func StackLogicalID(id identity.Identity) string {
	return "Stack" + id.String()
}

func DeploymentLogicalID(id identity.Identity) string {
	return "Deployment" + id.String()
}

// ArtifactKey is the bucket key for an endpoint's code archive. Keys are
// namespaced by API name and build timestamp so deploys never clobber
// each other.
func ArtifactKey(profile *config.Profile, endpoint *graph.EndpointDescriptor) string {
	return fmt.Sprintf("%s/%d/%s/%s", profile.Name, profile.Timestamp, meta.ArtifactsDir, endpoint.ArtifactFile)
}

// TemplateKey is the bucket key for an endpoint's template fragment.
func TemplateKey(profile *config.Profile, endpoint *graph.EndpointDescriptor) string {
	return fmt.Sprintf("%s/%d/%s/%s", profile.Name, profile.Timestamp, meta.TemplatesDir, endpoint.TemplateFile)
}

// AggregateTemplateKey is the bucket key for the aggregate template.
func AggregateTemplateKey(profile *config.Profile) string {
	return fmt.Sprintf("%s/%d/%s/%s", profile.Name, profile.Timestamp, meta.TemplatesDir, meta.AggregateTemplateFile)
}

// TemplateURL is the HTTPS location CloudFormation fetches a nested stack
// fragment from.
func TemplateURL(profile *config.Profile, key string) string {
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", profile.Bucket, profile.Region, key)
}
