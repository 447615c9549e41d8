package model

import "time"

const TableNameKVEntry = "kv_entry"

// KVEntry mapped from table <kv_entry>
type KVEntry struct {
	Key       string    `gorm:"column:key;type:varchar(191);primaryKey" json:"key" form:"key"`
	Value     string    `gorm:"column:value;type:text;not null" json:"value" form:"value"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt" form:"updatedAt"`
}

// TableName KVEntry's table name
func (*KVEntry) TableName() string {
	return TableNameKVEntry
}
