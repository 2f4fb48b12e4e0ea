// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - MentionSource: Produces mention records (JSONL file, NER output)
//   - KnowledgeBase: Proposes candidate entities for a mention
//   - TaskSink: Receives finished tasks
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the pipeline degrades gracefully:
//
//   - DescriptionLookup: Without it every option shows "No description".
//   - DatasetStore: Without it resume and exclusion seeding are disabled.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
