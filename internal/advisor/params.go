package advisor

import (
	"context"
	"encoding/json"
	"fmt"
)

// ExtractParameters asks the conversational agent to turn the free-text
// profile message into catalog query parameters. The agent replies with a JSON
// envelope whose "response" field holds a JSON-encoded parameter object.
// After a successful parse the jurisdiction is forced to HomeMarket,
// overriding whatever the agent returned.
func ExtractParameters(ctx context.Context, agent AgentService, userID, sessionID, message string) (QueryParameters, error) {
	reply, err := agent.Converse(ctx, userID, sessionID, message)
	if err != nil {
		return nil, upstreamErr("agent", err)
	}

	var envelope struct {
		Response string `json:"response"`
	}
	if err := json.Unmarshal([]byte(reply), &envelope); err != nil {
		return nil, malformedErr("agent", err)
	}

	params := QueryParameters{}
	if err := json.Unmarshal([]byte(envelope.Response), &params); err != nil {
		return nil, malformedErr("agent", err)
	}

	params["country"] = HomeMarket
	return params, nil
}

// ValidateParameters checks the minimal key set the catalog lookup depends on.
// A missing key is the caller's problem, not an upstream failure.
func ValidateParameters(params QueryParameters) error {
	for _, key := range RequiredParameterKeys {
		if _, ok := params[key]; !ok {
			return &Error{Kind: KindInvalidParameters, Message: fmt.Sprintf("missing required parameter: %s", key)}
		}
	}
	return nil
}
