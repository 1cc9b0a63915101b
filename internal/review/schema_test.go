package review

import "testing"

func TestValidateDraftJSON(t *testing.T) {
	valid := `{"user_id":"u1","amount":"R$ 123,45","due_date":"31/12/2024","category":"debt"}`
	if err := ValidateDraftJSON([]byte(valid)); err != nil {
		t.Fatalf("valid body rejected: %v", err)
	}

	tests := map[string]string{
		"missing user_id":   `{"amount":"1,00","due_date":"31/12/2024","category":"debt"}`,
		"bad date pattern":  `{"user_id":"u1","amount":"1,00","due_date":"2024-12-31","category":"debt"}`,
		"unknown category":  `{"user_id":"u1","amount":"1,00","due_date":"31/12/2024","category":"offshore"}`,
		"unknown account":   `{"user_id":"u1","amount":"1,00","due_date":"31/12/2024","category":"debt","account":"vault"}`,
		"unexpected key":    `{"user_id":"u1","amount":"1,00","due_date":"31/12/2024","category":"debt","hack":true}`,
		"amount not string": `{"user_id":"u1","amount":123.45,"due_date":"31/12/2024","category":"debt"}`,
		"not json":          `{{`,
	}
	for name, body := range tests {
		if err := ValidateDraftJSON([]byte(body)); err == nil {
			t.Errorf("%s: expected validation error for %s", name, body)
		}
	}
}
