package chain

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/tidwall/gjson"

	"context"

	"daopilot/internal/logger"
	"daopilot/internal/types"
)

// proposalsSchema 提案文件的结构约束。缺字段的记录会让整次加载失败，
// 不做逐条跳过。
const proposalsSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "array",
  "items": {
    "type": "object",
    "required": ["id", "title", "description", "proposer"],
    "properties": {
      "id": {"type": "integer", "minimum": 0},
      "title": {"type": "string", "minLength": 1},
      "description": {"type": "string"},
      "proposer": {"type": "string", "minLength": 1},
      "votesFor": {"type": "integer", "minimum": 0},
      "votesAgainst": {"type": "integer", "minimum": 0},
      "votesAbstain": {"type": "integer", "minimum": 0},
      "executed": {"type": "boolean"}
    }
  }
}`

// FileSource 从本地 JSON 文件读取提案批次（mock 模式）。
type FileSource struct {
	path   string
	schema *jsonschema.Schema
}

// NewFileSource 构造文件提案源。schemaPath 为空时用内置 schema。
func NewFileSource(path, schemaPath string) (*FileSource, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("proposals path 不能为空")
	}
	doc := proposalsSchema
	if strings.TrimSpace(schemaPath) != "" {
		data, err := os.ReadFile(schemaPath)
		if err != nil {
			return nil, fmt.Errorf("reading proposal schema failed: %w", err)
		}
		doc = string(data)
	}
	schema, err := jsonschema.CompileString("proposals.schema.json", doc)
	if err != nil {
		return nil, fmt.Errorf("compiling proposal schema failed: %w", err)
	}
	return &FileSource{path: path, schema: schema}, nil
}

// FetchProposals 读取并校验提案文件。文件不存在按"无提案"处理，不算错误。
func (s *FileSource) FetchProposals(ctx context.Context) ([]types.Proposal, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Infof("提案文件不存在 (%s)，按空批次处理；可先执行 daopilot seed", s.path)
			return nil, nil
		}
		return nil, fmt.Errorf("reading proposals file failed (%s): %w", s.path, err)
	}
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("proposals file is not valid json (%s)", s.path)
	}

	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decoding proposals file failed: %w", err)
	}
	if err := s.schema.Validate(raw); err != nil {
		return nil, fmt.Errorf("proposals file failed schema validation: %w", err)
	}

	var proposals []types.Proposal
	if err := json.Unmarshal(data, &proposals); err != nil {
		return nil, fmt.Errorf("decoding proposals failed: %w", err)
	}
	logger.Infof("✓ 从 %s 加载了 %d 条提案", s.path, len(proposals))
	return proposals, nil
}
