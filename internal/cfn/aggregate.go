// Where: cli/internal/cfn/aggregate.go
// What: Aggregate template assembly from the deployment graph.
// Why: One composed document the deployer can submit without manual
//      sequencing.
package cfn

import (
	"fmt"
	"sort"

	"github.com/tlaloc-dev/tlaloc/cli/internal/config"
	"github.com/tlaloc-dev/tlaloc/cli/internal/graph"
)

// RestApiLogicalID anchors the whole resource tree.
const RestApiLogicalID = "RestApi"

// StageLogicalID names the deployed stage resource.
const StageLogicalID = "Stage"

// BuildAggregate assembles the top-level template: the API root, every
// resource node, synthesized CORS methods, one nested stack per endpoint,
// the deployment gated on all of them, and the stage.
func BuildAggregate(profile *config.Profile, g *graph.Graph) Template {
	description := profile.Description
	if description == "" {
		description = fmt.Sprintf("%s serverless API", profile.Name)
	}
	tmpl := NewTemplate(description)

	tmpl.Resources[RestApiLogicalID] = Resource{
		Type: "AWS::ApiGateway::RestApi",
		Properties: map[string]any{
			"Name":        profile.Name,
			"Description": description,
		},
	}

	for _, node := range g.Resources {
		parent := any(GetAtt(RestApiLogicalID, "RootResourceId"))
		if !node.RootParent {
			parent = Ref(ResourceLogicalID(node.ParentID))
		}
		tmpl.Resources[ResourceLogicalID(node.ID)] = Resource{
			Type: "AWS::ApiGateway::Resource",
			Properties: map[string]any{
				"RestApiId": Ref(RestApiLogicalID),
				"ParentId":  parent,
				"PathPart":  node.Segment,
			},
		}
	}

	for _, node := range g.CORS {
		tmpl.Resources[CorsLogicalID(node.ID)] = corsMethod(g, node)
	}

	for _, endpoint := range g.Endpoints {
		resourceID := any(GetAtt(RestApiLogicalID, "RootResourceId"))
		if endpoint.ResourcePath != "" {
			resourceID = Ref(ResourceLogicalID(g.Resource(endpoint.ResourcePath).ID))
		}
		tmpl.Resources[StackLogicalID(endpoint.ID)] = Resource{
			Type: "AWS::CloudFormation::Stack",
			Properties: map[string]any{
				"TemplateURL": TemplateURL(profile, TemplateKey(profile, endpoint)),
				"Parameters": map[string]any{
					ParamRestApiID:  Ref(RestApiLogicalID),
					ParamResourceID: resourceID,
				},
			},
		}
	}

	deploymentID := DeploymentLogicalID(g.DeploymentID)
	tmpl.Resources[deploymentID] = Resource{
		Type: "AWS::ApiGateway::Deployment",
		Properties: map[string]any{
			"RestApiId": Ref(RestApiLogicalID),
		},
		DependsOn: deploymentDependsOn(g),
	}

	tmpl.Resources[StageLogicalID] = Resource{
		Type: "AWS::ApiGateway::Stage",
		Properties: map[string]any{
			"RestApiId":    Ref(RestApiLogicalID),
			"DeploymentId": Ref(deploymentID),
			"StageName":    profile.Stage,
		},
	}

	tmpl.Outputs = map[string]Output{
		"ApiEndpoint": {
			Description: "Invoke URL for the deployed stage",
			Value: Sub(fmt.Sprintf(
				"https://${%s}.execute-api.${AWS::Region}.amazonaws.com/%s",
				RestApiLogicalID, profile.Stage,
			)),
		},
	}
	return tmpl
}

// deploymentDependsOn maps the graph's dependency identities onto the
// logical IDs present in this template: nested stacks carry the methods,
// CORS methods are inline.
func deploymentDependsOn(g *graph.Graph) []string {
	depends := make([]string, 0, len(g.Endpoints)+len(g.CORS))
	for _, endpoint := range g.Endpoints {
		depends = append(depends, StackLogicalID(endpoint.ID))
	}
	for _, node := range g.CORS {
		depends = append(depends, CorsLogicalID(node.ID))
	}
	sort.Strings(depends)
	return depends
}

// corsMethod is the synthesized OPTIONS mock integration for one resource.
func corsMethod(g *graph.Graph, node *graph.CORSNode) Resource {
	resourceID := any(GetAtt(RestApiLogicalID, "RootResourceId"))
	if node.ResourcePath != "" {
		resourceID = Ref(ResourceLogicalID(g.Resource(node.ResourcePath).ID))
	}
	headers := map[string]any{
		"method.response.header.Access-Control-Allow-Headers": fmt.Sprintf("'%s'", graph.CORSAllowHeaders),
		"method.response.header.Access-Control-Allow-Methods": fmt.Sprintf("'%s'", graph.CORSAllowMethods),
		"method.response.header.Access-Control-Allow-Origin":  fmt.Sprintf("'%s'", graph.CORSAllowOrigin),
	}
	responseParams := map[string]any{
		"method.response.header.Access-Control-Allow-Headers": true,
		"method.response.header.Access-Control-Allow-Methods": true,
		"method.response.header.Access-Control-Allow-Origin":  true,
	}
	return Resource{
		Type: "AWS::ApiGateway::Method",
		Properties: map[string]any{
			"RestApiId":         Ref(RestApiLogicalID),
			"ResourceId":        resourceID,
			"HttpMethod":        "OPTIONS",
			"AuthorizationType": "NONE",
			"Integration": map[string]any{
				"Type": "MOCK",
				"RequestTemplates": map[string]any{
					"application/json": `{"statusCode": 200}`,
				},
				"IntegrationResponses": []any{
					map[string]any{
						"StatusCode":         "200",
						"ResponseParameters": headers,
					},
				},
			},
			"MethodResponses": []any{
				map[string]any{
					"StatusCode":         "200",
					"ResponseParameters": responseParams,
				},
			},
		},
	}
}
