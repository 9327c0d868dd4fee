package model

// validTransitions defines allowed status transitions. Approved and rejected
// are terminal.
var validTransitions = map[OrderStatus][]OrderStatus{
	StatusPending:  {StatusApproved, StatusRejected},
	StatusApproved: {},
	StatusRejected: {},
}

// CanTransitionTo checks if the order can move to the target status.
func (o *Order) CanTransitionTo(target OrderStatus) bool {
	allowed, exists := validTransitions[o.Status]
	if !exists {
		return false
	}
	for _, s := range allowed {
		if s == target {
			return true
		}
	}
	return false
}

// Approve marks a pending order approved. An empty access link is accepted
// and can be filled in later with SetAccessLink.
func (o *Order) Approve(accessLink string) error {
	if !o.CanTransitionTo(StatusApproved) {
		return ErrInvalidTransition
	}
	o.Status = StatusApproved
	o.AccessLink = accessLink
	return nil
}

// Reject marks a pending order rejected.
func (o *Order) Reject() error {
	if !o.CanTransitionTo(StatusRejected) {
		return ErrInvalidTransition
	}
	o.Status = StatusRejected
	o.AccessLink = ""
	return nil
}

// SetAccessLink replaces the access link without touching the status.
// Clearing is always allowed; a non-empty link needs an approved order.
func (o *Order) SetAccessLink(accessLink string) error {
	if accessLink != "" && o.Status != StatusApproved {
		return ErrAccessLinkRequiresApproval
	}
	o.AccessLink = accessLink
	return nil
}
