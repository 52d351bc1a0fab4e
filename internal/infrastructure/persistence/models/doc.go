// Package models contains the GORM persistence models. Domain entities carry
// no ORM tags; each model maps to and from its entity.
package models
