package mirrormaker2

import (
	"fmt"

	"k8s.io/apimachinery/pkg/util/validation"

	kafkav1alpha1 "github.com/numtide/kafka-operator/api/v1alpha1"
)

// Validation messages shared with the admission webhook.
const (
	MsgMissingTopics    = "One of the fields include or whitelist needs to be specified."
	MsgIncludeWhitelist = "Both include and whitelist fields are present. Whitelist is deprecated and will be ignored."
)

// Validate returns the problems that prevent a pass from building the
// dependents of mm2, and warnings about deprecated usage that does not.
func Validate(mm2 *kafkav1alpha1.KafkaMirrorMaker2) (problems, warnings []string) {
	for _, msg := range validation.IsDNS1035Label(mm2.Name) {
		problems = append(problems, fmt.Sprintf("metadata.name: %s", msg))
	}
	if mm2.Spec.Replicas < 0 {
		problems = append(problems, fmt.Sprintf("spec.replicas must not be negative, got %d", mm2.Spec.Replicas))
	}
	if mm2.Spec.Image == "" {
		problems = append(problems, "spec.image is required")
	}

	aliases := make(map[string]bool, len(mm2.Spec.Clusters))
	for i, c := range mm2.Spec.Clusters {
		path := fmt.Sprintf("spec.clusters[%d]", i)
		for _, msg := range validation.IsDNS1123Label(c.Alias) {
			problems = append(problems, fmt.Sprintf("%s.alias: %s", path, msg))
		}
		if aliases[c.Alias] {
			problems = append(problems, fmt.Sprintf("%s.alias %q is listed more than once", path, c.Alias))
		}
		aliases[c.Alias] = true
		if c.BootstrapServers == "" {
			problems = append(problems, path+".bootstrapServers is required")
		}
		problems = append(problems, validateAuthentication(path+".authentication", c.Authentication)...)
	}

	switch {
	case mm2.Spec.ConnectCluster == "":
		problems = append(problems, "spec.connectCluster is required")
	case !aliases[mm2.Spec.ConnectCluster]:
		problems = append(problems, fmt.Sprintf(
			"connectCluster with alias %s cannot be found in the list of clusters at spec.clusters",
			mm2.Spec.ConnectCluster))
	}

	for i, m := range mm2.Spec.Mirrors {
		path := fmt.Sprintf("spec.mirrors[%d]", i)
		if m.SourceCluster == "" {
			problems = append(problems, path+": sourceCluster property is required")
		} else if !aliases[m.SourceCluster] {
			problems = append(problems, fmt.Sprintf(
				"%s: sourceCluster with alias %s cannot be found in the list of clusters at spec.clusters",
				path, m.SourceCluster))
		}
		if m.TargetCluster == "" {
			problems = append(problems, path+": targetCluster property is required")
		} else if !aliases[m.TargetCluster] {
			problems = append(problems, fmt.Sprintf(
				"%s: targetCluster with alias %s cannot be found in the list of clusters at spec.clusters",
				path, m.TargetCluster))
		}

		switch {
		case m.Include == "" && m.Whitelist == "" && m.TopicsPattern == "":
			problems = append(problems, path+": "+MsgMissingTopics)
		case m.Include != "" && m.Whitelist != "":
			warnings = append(warnings, path+": "+MsgIncludeWhitelist)
		}

		for _, c := range mirrorConnectors(m) {
			if c.spec.TasksMax != nil && *c.spec.TasksMax < 1 {
				problems = append(problems, fmt.Sprintf("%s.%s.tasksMax must be at least 1, got %d",
					path, c.field, *c.spec.TasksMax))
			}
		}
	}

	return problems, warnings
}

func validateAuthentication(path string, auth *kafkav1alpha1.ClientAuthentication) []string {
	if auth == nil {
		return nil
	}
	switch auth.Type {
	case kafkav1alpha1.AuthenticationTLS:
		if auth.CertificateAndKey == nil {
			return []string{path + ".certificateAndKey is required for tls authentication"}
		}
	case kafkav1alpha1.AuthenticationScramSha512, kafkav1alpha1.AuthenticationPlain:
		var problems []string
		if auth.Username == "" {
			problems = append(problems, fmt.Sprintf("%s.username is required for %s authentication", path, auth.Type))
		}
		if auth.PasswordSecret == nil {
			problems = append(problems, fmt.Sprintf("%s.passwordSecret is required for %s authentication", path, auth.Type))
		}
		return problems
	default:
		return []string{fmt.Sprintf("%s.type %q is not supported", path, auth.Type)}
	}
	return nil
}
