package dto

import (
	"encoding/json"
	"testing"

	"github.com/aretw0/dialcode/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGatewayRequest_MsgTypeDefaultsToFirstContact(t *testing.T) {
	var req GatewayRequest
	require.NoError(t, json.Unmarshal([]byte(`{"USERID":"app","MSISDN":"233","USERDATA":"*920*1806#","SESSIONID":"s1"}`), &req))

	got := req.ToDomain()
	assert.True(t, got.FirstContact)
	assert.Equal(t, domain.Request{
		UserID:       "app",
		MSISDN:       "233",
		UserData:     "*920*1806#",
		SessionID:    "s1",
		FirstContact: true,
	}, got)

	require.NoError(t, json.Unmarshal([]byte(`{"USERDATA":"1","MSGTYPE":false,"SESSIONID":"s1"}`), &req))
	assert.False(t, req.ToDomain().FirstContact)
}

func TestGatewayResponse_WireNames(t *testing.T) {
	body, err := json.Marshal(NewGatewayResponse(domain.Response{
		UserID:   "app",
		MSISDN:   "233",
		Message:  "You are Not well because of money.",
		Continue: false,
	}))
	require.NoError(t, err)
	assert.JSONEq(t, `{"USERID":"app","MSISDN":"233","MSG":"You are Not well because of money.","MSGTYPE":false}`, string(body))
}

func TestNewErrorResponse(t *testing.T) {
	resp := NewErrorResponse(domain.ErrMissingSessionID)
	assert.Equal(t, domain.CodeMissingSessionID, resp.Code)
	assert.Equal(t, domain.ErrMissingSessionID.Error(), resp.Error)
}
