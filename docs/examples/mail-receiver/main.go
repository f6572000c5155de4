// AutoTrack Mail Receiver Example
//
// This is a minimal example of an HTTP mail endpoint compatible with the
// AutoTrack reminder worker. It authenticates requests with a bearer token
// and logs the reminder emails it receives instead of delivering them.
//
// Usage:
//   export AUTOTRACK_MAIL_API_KEY="your_api_key_here"
//   go run main.go
//
// Then point AutoTrack at it:
//   MAIL_ENDPOINT=http://localhost:9100/send MAIL_API_KEY=your_api_key_here

package main

import (
	"crypto/subtle"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"strings"
)

// ReminderMail is the payload AutoTrack posts for each reminder email.
type ReminderMail struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

func main() {
	apiKey := os.Getenv("AUTOTRACK_MAIL_API_KEY")
	if apiKey == "" {
		log.Fatal("AUTOTRACK_MAIL_API_KEY environment variable is required")
	}

	http.HandleFunc("/send", sendHandler(apiKey))
	http.HandleFunc("/health", healthHandler)

	log.Println("Starting mail receiver on :9100")
	log.Println("Endpoint: http://localhost:9100/send")
	log.Fatal(http.ListenAndServe(":9100", nil))
}

func sendHandler(apiKey string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		if subtle.ConstantTimeCompare([]byte(token), []byte(apiKey)) != 1 {
			log.Println("Rejected request with bad API key")
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		var mail ReminderMail
		if err := json.NewDecoder(r.Body).Decode(&mail); err != nil {
			log.Printf("Error parsing JSON: %v", err)
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		log.Printf("✓ Reminder mail for %s", mail.To)
		log.Printf("  From:    %s", mail.From)
		log.Printf("  Subject: %s", mail.Subject)
		log.Printf("  Body:    %s", mail.Body)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "queued"})
	}
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
