package models

import (
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestInboxItem_MarkerProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("visible text never contains the delimiter", prop.ForAll(
		func(message string) bool {
			item := InboxItem{Message: message}
			return !strings.Contains(item.DisplayMessage(), markerDelimiter)
		},
		gen.AnyString(),
	))

	properties.Property("plan marker round-trips", prop.ForAll(
		func(text, id string) bool {
			item := InboxItem{Message: text + markerDelimiter + "PLAN:" + id}
			linked := item.LinkedEntity()
			return linked != nil && linked.Kind == LinkedPlan && linked.ID == id &&
				item.DisplayMessage() == strings.TrimRight(text, " ")
		},
		gen.AlphaString(),
		gen.Identifier(),
	))

	properties.Property("message without delimiter is returned verbatim and carries no link", prop.ForAll(
		func(message string) bool {
			item := InboxItem{Message: message}
			return item.DisplayMessage() == message && item.LinkedEntity() == nil
		},
		gen.AnyString().SuchThat(func(s string) bool {
			return !strings.Contains(s, markerDelimiter)
		}),
	))

	properties.Property("structured link always beats in-message markers", prop.ForAll(
		func(message, id string) bool {
			item := InboxItem{
				Message: message,
				Linked:  &LinkedEntity{Kind: LinkedThread, ID: id},
			}
			linked := item.LinkedEntity()
			return linked != nil && linked.Kind == LinkedThread && linked.ID == id
		},
		gen.AnyString(),
		gen.Identifier(),
	))

	properties.TestingRun(t)
}
