// Where: cli/internal/deployer/deployer.go
// What: Deployment error type shared by the AWS adapters.
// Why: The build core hands a finished artifact set across a narrow
//      boundary; upload and stack submission are external effects.
package deployer

import "fmt"

// DeploymentError wraps a failure from the external deployment
// collaborator. The core propagates it without retrying; retry and
// backoff policy belong to the collaborator.
type DeploymentError struct {
	Op  string
	Err error
}

func (e *DeploymentError) Error() string {
	return fmt.Sprintf("deployment: %s: %v", e.Op, e.Err)
}

func (e *DeploymentError) Unwrap() error {
	return e.Err
}
