// Package services defines the shared error taxonomy for outbound
// service calls and the generation pipeline. Sentinel errors classify
// failures so transport layers can map them to responses without
// inspecting message text.
package services
