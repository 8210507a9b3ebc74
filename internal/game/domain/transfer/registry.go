package transfer

import (
	"encoding/json"
	"errors"

	"github.com/quest-net/questd/internal/game/domain/command"
	"github.com/quest-net/questd/internal/game/domain/event"
)

// RegisterCommands registers transfer commands with the shared registry.
func RegisterCommands(registry *command.Registry) error {
	if registry == nil {
		return errors.New("command registry is required")
	}
	definitions := []command.Definition{
		{Type: CommandTypeOffer, ValidatePayload: validateOfferPayload},
		{Type: CommandTypeAccept, ValidatePayload: validateAcceptPayload},
		{Type: CommandTypeReject, ValidatePayload: validateRejectPayload},
	}
	for _, def := range definitions {
		if err := registry.Register(def); err != nil {
			return err
		}
	}
	return nil
}

// RegisterEvents registers transfer events with the shared registry.
func RegisterEvents(registry *event.Registry) error {
	if registry == nil {
		return errors.New("event registry is required")
	}
	definitions := []event.Definition{
		{Type: EventTypeOffered, ValidatePayload: validateOfferedPayload},
		{Type: EventTypeAccepted, ValidatePayload: validateAcceptedPayload},
		{Type: EventTypeRejected, ValidatePayload: validateRejectedPayload},
		{Type: EventTypeVoided, ValidatePayload: validateVoidedPayload},
	}
	for _, def := range definitions {
		if err := registry.Register(def); err != nil {
			return err
		}
	}
	return nil
}

func validateOfferPayload(raw json.RawMessage) error {
	var payload OfferPayload
	return json.Unmarshal(raw, &payload)
}

func validateAcceptPayload(raw json.RawMessage) error {
	var payload AcceptPayload
	return json.Unmarshal(raw, &payload)
}

func validateRejectPayload(raw json.RawMessage) error {
	var payload RejectPayload
	return json.Unmarshal(raw, &payload)
}

func validateOfferedPayload(raw json.RawMessage) error {
	var payload OfferedPayload
	return json.Unmarshal(raw, &payload)
}

func validateAcceptedPayload(raw json.RawMessage) error {
	var payload AcceptedPayload
	return json.Unmarshal(raw, &payload)
}

func validateRejectedPayload(raw json.RawMessage) error {
	var payload RejectedPayload
	return json.Unmarshal(raw, &payload)
}

func validateVoidedPayload(raw json.RawMessage) error {
	var payload VoidedPayload
	return json.Unmarshal(raw, &payload)
}
