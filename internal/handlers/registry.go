package handlers

// AppHandlers holds every handler the router wires up.
type AppHandlers struct {
	UserHandler     *UserHandler
	ProgramHandler  *ProgramHandler
	CardHandler     *CardHandler
	RechargeHandler *RechargeHandler
	PackageHandler  *PackageHandler
}
