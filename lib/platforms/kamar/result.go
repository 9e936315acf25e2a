package kamar

// Outcome is either a Success or a PortalError.
type Outcome interface {
	outcome()
}

// Success holds the notices of a successful retrieval in the order the
// portal returned them, meetings first. Notices is never nil.
type Success struct {
	Notices []Notice
}

func (Success) outcome() {}

// PortalError is an error the portal reported in its response (bad key,
// bad date, ...), as opposed to a failure to talk to the portal at all.
type PortalError struct {
	Message string
}

func (PortalError) outcome() {}

// Notices is the result of retrieving the notices for a date.
type Notices struct {
	// the date as it was sent to the portal (DD/MM/YYYY)
	Date    string
	Outcome Outcome
}

func (n Notices) IsSuccess() bool {
	_, ok := n.Outcome.(Success)
	return ok
}

// Items returns the notices, ok is false when the portal reported an error.
func (n Notices) Items() (notices []Notice, ok bool) {
	success, ok := n.Outcome.(Success)
	if !ok {
		return nil, false
	}
	return success.Notices, true
}

// ErrorMessage returns the portal's error message, ok is false on success.
func (n Notices) ErrorMessage() (message string, ok bool) {
	portalErr, ok := n.Outcome.(PortalError)
	if !ok {
		return "", false
	}
	return portalErr.Message, true
}
