package services

import "cardkey_backend/internal/email"

// ServiceContainer holds every service the application wires at startup.
type ServiceContainer struct {
	UserService     UserService
	ProgramService  ProgramService
	CardService     CardService
	BalanceService  BalanceService
	RechargeService RechargeService
	PackageService  PackageService
	PricingPolicy   PricingPolicy
	EmailService    email.Provider
}
