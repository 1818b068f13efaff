// Package dto holds the gateway wire payloads shared by the transport adapters.
package dto

import (
	"github.com/aretw0/dialcode/pkg/domain"
)

// GatewayRequest is the body a USSD gateway posts for every keypress.
type GatewayRequest struct {
	UserID   string `json:"USERID"`
	MSISDN   string `json:"MSISDN"`
	UserData string `json:"USERDATA"`
	// MsgType marks the first request of a dial. Absent means true.
	MsgType   *bool  `json:"MSGTYPE,omitempty"`
	SessionID string `json:"SESSIONID"`
}

// ToDomain converts the wire payload into an engine request.
func (r GatewayRequest) ToDomain() domain.Request {
	return domain.Request{
		UserID:       r.UserID,
		MSISDN:       r.MSISDN,
		UserData:     r.UserData,
		SessionID:    r.SessionID,
		FirstContact: r.MsgType == nil || *r.MsgType,
	}
}

// GatewayResponse is returned to the gateway. MsgType false ends the session.
type GatewayResponse struct {
	UserID  string `json:"USERID"`
	MSISDN  string `json:"MSISDN"`
	Message string `json:"MSG"`
	MsgType bool   `json:"MSGTYPE"`
}

// NewGatewayResponse converts an engine response into its wire form.
func NewGatewayResponse(resp domain.Response) GatewayResponse {
	return GatewayResponse{
		UserID:  resp.UserID,
		MSISDN:  resp.MSISDN,
		Message: resp.Message,
		MsgType: resp.Continue,
	}
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// NewErrorResponse builds an error body carrying the stable code of err.
func NewErrorResponse(err error) ErrorResponse {
	return ErrorResponse{
		Error: err.Error(),
		Code:  domain.Code(err),
	}
}
