package telemetry

import "fmt"

// Topic prefixes for the fermsim MQTT hierarchy.
//
// All topics use the flat scheme: fermsim/{category}/{kind}/{identifier}
const (
	// TopicPrefix is the base for all fermsim topics.
	TopicPrefix = "fermsim"

	// TopicPrefixState is the base for retained state topics.
	TopicPrefixState = "fermsim/state"

	// TopicPrefixEvent is the base for switching event topics.
	TopicPrefixEvent = "fermsim/event"

	// TopicPrefixSystem is the base for system topics.
	TopicPrefixSystem = "fermsim/system"
)

// Topics provides builders for fermsim MQTT topics.
// Using these helpers keeps topic naming consistent across the codebase.
//
//	topics := telemetry.Topics{}
//	stateTopic := topics.FermenterState(3)
//	// Returns: "fermsim/state/fermenter/3"
type Topics struct{}

// FermenterState returns the retained state topic for one vessel.
//
// Example: fermsim/state/fermenter/3
func (Topics) FermenterState(id int) string {
	return fmt.Sprintf("%s/fermenter/%d", TopicPrefixState, id)
}

// RelayEvent returns the switching event topic for a relay channel.
//
// Example: fermsim/event/relay/heater
func (Topics) RelayEvent(name string) string {
	return fmt.Sprintf("%s/relay/%s", TopicPrefixEvent, name)
}

// OutputEvent returns the switching event topic for a digital output.
//
// Example: fermsim/event/output/4
func (Topics) OutputEvent(id int) string {
	return fmt.Sprintf("%s/output/%d", TopicPrefixEvent, id)
}

// SystemStatus returns the online/offline status topic.
//
// Example: fermsim/system/status
func (Topics) SystemStatus() string {
	return fmt.Sprintf("%s/status", TopicPrefixSystem)
}

// AllStates returns a pattern matching every retained state topic.
//
// Pattern: fermsim/state/#
func (Topics) AllStates() string {
	return TopicPrefixState + "/#"
}

// AllEvents returns a pattern matching every switching event topic.
//
// Pattern: fermsim/event/#
func (Topics) AllEvents() string {
	return TopicPrefixEvent + "/#"
}

// AllTopics returns a pattern matching the whole fermsim hierarchy.
//
// Pattern: fermsim/#
func (Topics) AllTopics() string {
	return TopicPrefix + "/#"
}
