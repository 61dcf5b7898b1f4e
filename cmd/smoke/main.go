// Command smoke runs the full customer flow against a running server:
// build a cart, check out, walk the order through its statuses, then
// delete it. Exits non-zero on the first mismatch.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/google/uuid"
)

func main() {
	baseURL := os.Getenv("SOUCEY_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}
	session := uuid.NewString()

	client := &smokeClient{baseURL: baseURL, session: session}

	var health struct {
		Status string `json:"status"`
	}
	client.do("GET", "/health", nil, http.StatusOK, &health)

	item := map[string]interface{}{
		"item": map[string]interface{}{
			"id":    "jollof-1",
			"name":  "Jollof Rice",
			"price": 25.0,
			"restaurant": map[string]interface{}{
				"id": "resto-1", "name": "Mama's Kitchen", "deliveryFee": 5.0,
			},
		},
		"quantity": 2,
	}
	var cart struct {
		ItemCount int     `json:"itemCount"`
		Subtotal  float64 `json:"subtotal"`
		Total     float64 `json:"total"`
	}
	client.do("POST", "/cart/items", item, http.StatusOK, &cart)
	if cart.ItemCount != 2 || cart.Subtotal != 50 || cart.Total != 55 {
		log.Fatalf("unexpected cart after add: %+v", cart)
	}

	checkout := map[string]interface{}{
		"customer": map[string]string{
			"name": "Ama Mensah", "email": "ama@example.com", "phone": "+233200000000",
		},
		"address":       "Hostel B, Room 12",
		"campus":        "Legon",
		"paymentMethod": "mobile_money",
	}
	var order struct {
		ID            string  `json:"id"`
		OrderNumber   string  `json:"orderNumber"`
		Status        string  `json:"status"`
		PaymentStatus string  `json:"paymentStatus"`
		Total         float64 `json:"total"`
	}
	client.do("POST", "/checkout", checkout, http.StatusCreated, &order)
	if order.Status != "pending" || order.PaymentStatus != "paid" || order.Total != 55 {
		log.Fatalf("unexpected order after checkout: %+v", order)
	}

	client.do("GET", "/cart", nil, http.StatusOK, &cart)
	if cart.ItemCount != 0 {
		log.Fatalf("cart not cleared after checkout: %+v", cart)
	}

	for _, status := range []string{"processing", "delivered"} {
		var update struct {
			Success bool `json:"success"`
		}
		client.do("PUT", "/orders/"+order.ID, map[string]string{"status": status}, http.StatusOK, &update)
		if !update.Success {
			log.Fatalf("status update to %s failed", status)
		}
	}

	var fetched struct {
		Status string `json:"status"`
	}
	client.do("GET", "/orders/"+order.OrderNumber, nil, http.StatusOK, &fetched)
	if fetched.Status != "delivered" {
		log.Fatalf("expected delivered, got %s", fetched.Status)
	}

	var deleted struct {
		Success bool `json:"success"`
	}
	client.do("DELETE", "/orders/"+order.ID, nil, http.StatusOK, &deleted)

	fmt.Printf("smoke passed: order %s went pending -> processing -> delivered\n", order.OrderNumber)
}

type smokeClient struct {
	baseURL string
	session string
}

func (c *smokeClient) do(method, path string, body interface{}, wantStatus int, out interface{}) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			log.Fatalf("%s %s: encode body: %v", method, path, err)
		}
	}

	req, err := http.NewRequest(method, c.baseURL+path, &buf)
	if err != nil {
		log.Fatalf("%s %s: %v", method, path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Session-ID", c.session)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		log.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != wantStatus {
		log.Fatalf("%s %s: status %d, want %d", method, path, resp.StatusCode, wantStatus)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			log.Fatalf("%s %s: decode response: %v", method, path, err)
		}
	}
	log.Printf("%s %s -> %d", method, path, resp.StatusCode)
}
