package catalog

import (
	"fmt"

	"github.com/mcprelay/mcprelay/client"
)

func errMalformedToolsList(cause error) error {
	message := "tools/list response is missing a tools member"
	if cause != nil {
		message = fmt.Sprintf("malformed tools/list response: %v", cause)
	}
	return &client.ProtocolError{Message: message}
}

func errSchemaCompile(tool string, cause error) error {
	return &client.ProtocolError{Message: fmt.Sprintf("tool %q carries an unusable input schema: %v", tool, cause)}
}

func errMalformedCallResult(cause error) error {
	return &client.ProtocolError{Message: fmt.Sprintf("malformed tools/call result: %v", cause)}
}
