package detect

import (
	"fmt"
	"strings"

	"github.com/jasonkneen/emdash/internal/core/provider"
)

// Classify maps a probe result to a status code. The provider's own
// override is consulted first and always wins. The generic policy leans
// toward connected: any evidence the tool is present on the system counts,
// even when the probe run itself was unhappy.
func Classify(def provider.Definition, res provider.ProbeResult) provider.StatusCode {
	if def.Classify != nil {
		if code, ok := def.Classify(res); ok {
			return code
		}
	}

	switch {
	case res.Success:
		return provider.StatusConnected
	case res.Path != "":
		// The tool is on the system even if the run failed.
		return provider.StatusConnected
	case res.TimedOut && res.Stdout != "":
		// Slow-starting tools still count as present.
		return provider.StatusConnected
	case res.ExitCode != nil && !res.TimedOut && (res.Stdout != "" || res.Stderr != ""):
		// A responding tool is present even if misconfigured.
		return provider.StatusConnected
	case isNotFound(res.Err):
		// A spawn that failed because the tool is absent is not an
		// engine error.
		return provider.StatusMissing
	case res.Err != nil:
		return provider.StatusError
	default:
		return provider.StatusMissing
	}
}

// Message resolves the human-readable status message. This is independent
// of Classify: the provider's message override wins, then a generic
// not-found line for missing, then the probe's own output for errors.
// Connected statuses carry no message.
func Message(def provider.Definition, res provider.ProbeResult, code provider.StatusCode) string {
	if def.Message != nil {
		if msg, ok := def.Message(res); ok {
			return msg
		}
	}

	switch code {
	case provider.StatusMissing:
		return fmt.Sprintf("%s was not found in PATH.", def.Name)
	case provider.StatusError, provider.StatusNeedsKey:
		if out := strings.TrimSpace(res.Output()); out != "" {
			return out
		}
		if res.Err != nil {
			return res.Err.Error()
		}
	}
	return ""
}
