// Package contextmgr keeps an agent's message history replayable.
//
// A flat history is parsed into conversation turns (a user message plus the
// assistant/tool exchanges that follow it). Turns whose tool calls and tool
// results do not pair up exactly are dropped whole, the oldest remaining turns
// are pruned until the history fits a message budget, and the survivors are
// flattened back into the linear list the model API expects. Tools that are
// no longer referenced anywhere in the retained history are deactivated in the
// caller's tool store.
package contextmgr
