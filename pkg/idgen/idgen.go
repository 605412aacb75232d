// Package idgen 基于 snowflake 的订单/成交 ID 生成器。
// 生成的 ID 在单次运行内保证唯一，对核心管道是不透明字符串。
package idgen

import (
	"fmt"

	"github.com/bwmarrin/snowflake"
)

// Generator issues unique string ids.
type Generator struct {
	node *snowflake.Node
}

// New creates a generator for the given worker node (0..1023).
func New(nodeID int64) (*Generator, error) {
	node, err := snowflake.NewNode(nodeID)
	if err != nil {
		return nil, fmt.Errorf("idgen: %w", err)
	}
	return &Generator{node: node}, nil
}

// NextID returns a fresh id, unique within the process.
func (g *Generator) NextID() string {
	return g.node.Generate().String()
}
