// Package character implements party-member lifecycle and vitals mutations.
package character
