package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// storeAndFetch runs a request body through the same encoders a create followed by a get does.
func storeAndFetch(t *testing.T, body string) (bson.M, string) {
	t.Helper()
	var in Product
	require.NoError(t, json.Unmarshal([]byte(body), &in))

	raw, err := bson.Marshal(in)
	require.NoError(t, err)
	var stored bson.M
	require.NoError(t, bson.Unmarshal(raw, &stored))

	var out Product
	require.NoError(t, bson.Unmarshal(raw, &out))
	b, err := json.Marshal(out)
	require.NoError(t, err)
	return stored, string(b)
}

func TestProduct_EmptyValuesSurviveStorage(t *testing.T) {
	body := `{"productName":"Fin","price":0,"stock":0,"description":"","brandName":"","category":"","colors":[],"images":[]}`

	stored, fetched := storeAndFetch(t, body)

	assert.Equal(t, "", stored["description"])
	assert.Equal(t, primitive.A{}, stored["colors"])
	assert.Equal(t, primitive.A{}, stored["images"])
	assert.NotContains(t, stored, "_id")
	assert.JSONEq(t, body, fetched)
}

func TestProduct_AbsentFieldsStayAbsent(t *testing.T) {
	stored, fetched := storeAndFetch(t, `{"productName":"Fin"}`)

	assert.Equal(t, bson.M{"productName": "Fin"}, stored)
	assert.JSONEq(t, `{"productName":"Fin"}`, fetched)
}

func TestProductUpdate_SetDocument(t *testing.T) {
	var u ProductUpdate
	require.NoError(t, json.Unmarshal([]byte(`{"colors":[],"description":"","sku":"x"}`), &u))

	assert.Equal(t, map[string]any{"colors": []string{}, "description": ""}, u.SetDocument())
	assert.Empty(t, ProductUpdate{}.SetDocument())
}
