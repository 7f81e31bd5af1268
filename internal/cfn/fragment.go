// Where: cli/internal/cfn/fragment.go
// What: Per-endpoint nested stack template fragment.
// Why: Each endpoint deploys as its own unit: method, role, function, and
//      invoke permission.
package cfn

import (
	"fmt"

	"github.com/tlaloc-dev/tlaloc/cli/internal/config"
	"github.com/tlaloc-dev/tlaloc/cli/internal/graph"
)

// Default function settings for packaged handlers.
const (
	DefaultRuntime = "nodejs18.x"
	DefaultHandler = "index.handler"
	DefaultTimeout = 30
	DefaultMemory  = 256
)

// Fragment parameter names, supplied by the aggregate template's nested
// stack resource.
const (
	ParamRestApiID  = "RestApiId"
	ParamResourceID = "ResourceId"
)

// BuildFragment assembles the nested stack template for one endpoint.
func BuildFragment(profile *config.Profile, endpoint *graph.EndpointDescriptor) Template {
	tmpl := NewTemplate(fmt.Sprintf("%s %s %s", profile.Name, endpoint.Verb, endpoint.ResourcePath))
	tmpl.Parameters = map[string]Parameter{
		ParamRestApiID:  {Type: "String", Description: "API gateway id"},
		ParamResourceID: {Type: "String", Description: "Target resource id"},
	}

	id := endpoint.ID
	roleID := "Role" + id.String()
	functionID := "Function" + id.String()
	permissionID := "Permission" + id.String()

	tmpl.Resources[roleID] = Resource{
		Type: "AWS::IAM::Role",
		Properties: map[string]any{
			"AssumeRolePolicyDocument": map[string]any{
				"Version": "2012-10-17",
				"Statement": []any{
					map[string]any{
						"Effect":    "Allow",
						"Principal": map[string]any{"Service": "lambda.amazonaws.com"},
						"Action":    "sts:AssumeRole",
					},
				},
			},
			"ManagedPolicyArns": []any{
				"arn:aws:iam::aws:policy/service-role/AWSLambdaBasicExecutionRole",
			},
		},
	}

	tmpl.Resources[functionID] = Resource{
		Type: "AWS::Lambda::Function",
		Properties: map[string]any{
			"FunctionName": fmt.Sprintf("%s-%s", profile.Name, id.Short()),
			"Handler":      DefaultHandler,
			"Runtime":      DefaultRuntime,
			"Timeout":      DefaultTimeout,
			"MemorySize":   DefaultMemory,
			"Role":         GetAtt(roleID, "Arn"),
			"Code": map[string]any{
				"S3Bucket": profile.Bucket,
				"S3Key":    ArtifactKey(profile, endpoint),
			},
		},
	}

	tmpl.Resources[permissionID] = Resource{
		Type: "AWS::Lambda::Permission",
		Properties: map[string]any{
			"Action":       "lambda:InvokeFunction",
			"FunctionName": GetAtt(functionID, "Arn"),
			"Principal":    "apigateway.amazonaws.com",
			"SourceArn": Sub(fmt.Sprintf(
				"arn:aws:execute-api:${AWS::Region}:${AWS::AccountId}:${%s}/*/%s/%s",
				ParamRestApiID, endpoint.Verb, endpoint.ResourcePath,
			)),
		},
	}

	tmpl.Resources[MethodLogicalID(id)] = Resource{
		Type: "AWS::ApiGateway::Method",
		Properties: map[string]any{
			"RestApiId":         Ref(ParamRestApiID),
			"ResourceId":        Ref(ParamResourceID),
			"HttpMethod":        string(endpoint.Verb),
			"AuthorizationType": "NONE",
			"Integration": map[string]any{
				"Type":                  "AWS_PROXY",
				"IntegrationHttpMethod": "POST",
				"Uri": Sub(fmt.Sprintf(
					"arn:aws:apigateway:${AWS::Region}:lambda:path/2015-03-31/functions/${%s.Arn}/invocations",
					functionID,
				)),
			},
		},
	}

	tmpl.Outputs = map[string]Output{
		"FunctionArn": {
			Description: "Packaged handler function",
			Value:       GetAtt(functionID, "Arn"),
		},
	}
	return tmpl
}
