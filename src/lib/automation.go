package lib

import (
	"bytes"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"time"
)

var automationHTTP = &http.Client{Timeout: 10 * time.Second}

// RelayAutomationEvent posts booking events to the external automation
// webhook (scenario runner). Fire-and-forget: failures are logged and never
// block the caller, no response body is awaited beyond the status line.
func RelayAutomationEvent(event string, payload map[string]any) {
	url := os.Getenv("AUTOMATION_WEBHOOK_URL")
	if url == "" {
		log.Printf("[Automation] no webhook URL configured, skipping event %s\n", event)
		return
	}
	body := map[string]any{"event": event}
	for k, v := range payload {
		body[k] = v
	}
	bPayload, err := json.Marshal(&body)
	if err != nil {
		log.Printf("[Automation] Error serializing payload: %s\n", err.Error())
		return
	}
	go func() {
		res, err := automationHTTP.Post(url, "application/json", bytes.NewReader(bPayload))
		if err != nil {
			log.Printf("[Automation] Error relaying event %s: %s\n", event, err.Error())
			return
		}
		defer res.Body.Close()
		log.Printf("[Automation] Relayed event %s: %s\n", event, res.Status)
	}()
}
