// Package skills implements grant, revoke, and use mutations for skill
// references held by characters and field entities.
package skills
