// Package snapshot reads and writes shader graphs as JSON documents.
//
// A document lists nodes by ID and type name, the edges between their
// ports, declared port types, branch and subgraph tags, and any extra
// constraints. Names are matched without regard to case, so "add",
// "Add" and "ADD" all decode to the same operation.
//
//	{
//	  "root": 1,
//	  "nodes": [
//	    {"id": 1, "type": "Output"},
//	    {"id": 2, "type": "BinaryOperation", "op": "Add"},
//	    {"id": 3, "type": "BuiltIn", "builtin": "WorldPosition"}
//	  ],
//	  "edges": [
//	    {"from": {"node": 2}, "to": {"node": 1}},
//	    {"from": {"node": 3}, "to": {"node": 2, "port": 0}},
//	    {"from": {"node": 3}, "to": {"node": 2, "port": 1}}
//	  ]
//	}
package snapshot
