// Package listeners wires event handlers for the policy lifecycle. Binding
// and cancelling a policy each write a written-premium ledger entry, so the
// monthly bordereau export needs no knowledge of the request path.
package listeners

import (
	"fmt"
	"time"

	"github.com/gobuffalo/events"
	"github.com/gofrs/uuid"

	"github.com/embedsure/embed-api/domain"
	applog "github.com/embedsure/embed-api/log"
	"github.com/embedsure/embed-api/models"
)

type apiListener struct {
	name     string
	listener func(events.Event)
}

//
// Register new listener functions here.  Remember, though, that these groupings just
// describe what we want.  They don't make it happen this way. The listeners
// themselves still need to verify the event kind
//
var apiListeners = map[string][]apiListener{
	domain.EventApiPolicyBound: {
		{
			name:     "policy-bound-ledger-entry",
			listener: policyBoundLedgerEntry,
		},
	},
	domain.EventApiPolicyCancelled: {
		{
			name:     "policy-cancelled-ledger-entry",
			listener: policyCancelledLedgerEntry,
		},
	},
}

// RegisterListeners registers all the listeners to be used by the app
func RegisterListeners() {
	for _, listeners := range apiListeners {
		for _, l := range listeners {
			if _, err := events.NamedListen(l.name, l.listener); err != nil {
				applog.Errorf("failed registering listener %s: %s", l.name, err)
			}
		}
	}
}

func policyBoundLedgerEntry(e events.Event) {
	if e.Kind != domain.EventApiPolicyBound {
		return
	}

	defer panicRecover(e.Kind)
	createLedgerEntry(e, models.LedgerRecordTypePremium)
}

func policyCancelledLedgerEntry(e events.Event) {
	if e.Kind != domain.EventApiPolicyCancelled {
		return
	}

	defer panicRecover(e.Kind)
	createLedgerEntry(e, models.LedgerRecordTypeRefund)
}

func createLedgerEntry(e events.Event, recordType string) {
	id, err := getID(e.Payload)
	if err != nil {
		applog.Errorf("failed to get policy ID from %s payload: %s", e.Kind, err)
		return
	}

	var policy models.Policy
	if err := policy.FindByID(models.DB, id); err != nil {
		applog.Errorf("failed to find policy %s in %s: %s", id, e.Kind, err)
		return
	}

	var partner models.Partner
	partnerCode := ""
	if err := partner.FindByID(models.DB, policy.PartnerID); err == nil {
		partnerCode = partner.Code
	}

	entry := models.NewLedgerEntry(policy, partnerCode, recordType, time.Now().UTC())
	if err := entry.Create(models.DB); err != nil {
		applog.Errorf("failed to create %s ledger entry for policy %s: %s", recordType, policy.ID, err)
	}
}

func getID(p events.Payload) (uuid.UUID, error) {
	i, ok := p[domain.EventPayloadID]
	if !ok {
		return uuid.UUID{}, fmt.Errorf("id not in event payload")
	}

	switch id := i.(type) {
	case string:
		return uuid.FromStringOrNil(id), nil
	case uuid.UUID:
		return id, nil
	default:
		return uuid.UUID{}, fmt.Errorf("id not a valid type: %T", id)
	}
}

func panicRecover(name string) {
	if err := recover(); err != nil {
		applog.Errorf("panic in listener for %s: %v", name, err)
	}
}
