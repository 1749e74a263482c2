package resolve

import "sortwatch/internal/track"

// NodeFlowRecord is one row of the independent package-flow reference table.
type NodeFlowRecord struct {
	NodeID   string
	NodeType string
}

// NodeTypes maps node ids to their flow classification.
type NodeTypes map[string]track.NodeType

// ClassifyNodeTypes labels each node id as FC, SC, AA, or DS from the
// package-flow reference table. Unrecognized type strings are dropped so a
// later lookup resolves them as UNKNOWN.
func ClassifyNodeTypes(records []NodeFlowRecord) NodeTypes {
	types := make(NodeTypes, len(records))
	for _, r := range records {
		switch track.NodeType(r.NodeType) {
		case track.NodeFC, track.NodeSC, track.NodeAA, track.NodeDS:
			types[r.NodeID] = track.NodeType(r.NodeType)
		}
	}
	return types
}

// TypeOf returns the flow classification for a node id, or UNKNOWN.
func (t NodeTypes) TypeOf(nodeID string) track.NodeType {
	if nt, ok := t[nodeID]; ok {
		return nt
	}
	return track.NodeUnknown
}
