package model


// KnowledgeNode 知识大纲中的单个知识点，按层级深度组织
// 父子关系只保存 ParentID 回指，不做级联外键
type KnowledgeNode struct {
	UUIDBase
	OutlineID string  `gorm:"index;type:varchar(36);not null" json:"outlineId"`
	Text      string  `gorm:"type:text;not null" json:"text"`
	Level     int     `gorm:"not null;default:0" json:"level"` // 0-based 深度
	ParentID  *string `gorm:"type:varchar(36)" json:"parentId,omitempty"`
}

func (KnowledgeNode) TableName() string {
	return "knowledge_nodes"
}
