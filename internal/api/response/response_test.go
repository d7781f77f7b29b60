package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edvin/customerapi/internal/model"
)

func TestWriteJSON(t *testing.T) {
	w := httptest.NewRecorder()
	payload := map[string]string{"hello": "world"}

	WriteJSON(w, http.StatusOK, payload)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var body map[string]string
	err := json.Unmarshal(w.Body.Bytes(), &body)
	require.NoError(t, err)
	assert.Equal(t, "world", body["hello"])
}

func TestWriteError(t *testing.T) {
	w := httptest.NewRecorder()

	WriteError(w, http.StatusNotFound, "Customer was not found.")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"error":"Customer was not found."}`, w.Body.String())
}

func TestWriteFieldErrors(t *testing.T) {
	w := httptest.NewRecorder()

	WriteFieldErrors(w, map[string][]string{"customer_name": {"Missing data for required field."}})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"customer_name":["Missing data for required field."]}`, w.Body.String())
}

func TestMessage_OmitsNilID(t *testing.T) {
	w := httptest.NewRecorder()
	WriteJSON(w, http.StatusOK, Message{Message: "Successfully updated customer 1"})
	assert.JSONEq(t, `{"message":"Successfully updated customer 1"}`, w.Body.String())

	w = httptest.NewRecorder()
	WriteJSON(w, http.StatusCreated, Message{Message: "New customer added successfully!", ID: lo.ToPtr(int64(5))})
	assert.JSONEq(t, `{"message":"New customer added successfully!","id":5}`, w.Body.String())
}

func TestCustomers_EmptyIsArray(t *testing.T) {
	w := httptest.NewRecorder()
	WriteJSON(w, http.StatusOK, Customers(nil))
	assert.Equal(t, "[]\n", w.Body.String())
}

func TestCustomers_AllKeysPresent(t *testing.T) {
	w := httptest.NewRecorder()
	WriteJSON(w, http.StatusOK, Customers([]model.Customer{
		{ID: 1, CustomerName: "Ada", Email: lo.ToPtr("ada@x.com"), Phone: lo.ToPtr("555-0100")},
		{ID: 2, CustomerName: "Grace"},
	}))
	assert.JSONEq(t, `[
		{"id":1,"customer_name":"Ada","email":"ada@x.com","phone":"555-0100"},
		{"id":2,"customer_name":"Grace","email":null,"phone":null}
	]`, w.Body.String())
}
