package email

// Provider sends transactional mail. Implementations must be safe for
// concurrent use; the expiry worker calls them from its own goroutine.
type Provider interface {
	Send(to, subject, htmlBody string) error

	// SendWelcome greets a freshly provisioned account.
	SendWelcome(to, username string) error

	// SendCardsExpired notifies an owner that cards flipped to expired
	// during a reconciliation sweep.
	SendCardsExpired(to string, codes []string) error
}
