package model

// UserSnapshot 发布时刻冗余的作者信息（去规范化，头像昵称改名不回填）
type UserSnapshot struct {
	UserID string `bson:"user_id" json:"userId"`
	Handle string `bson:"handle" json:"handle"`
	Name   string `bson:"name" json:"name"`
	Avatar string `bson:"avatar,omitempty" json:"avatar,omitempty"`
}

// Snapshot 从 User 裁剪快照
func (u *User) Snapshot() UserSnapshot {
	return UserSnapshot{
		UserID: u.ID,
		Handle: u.Handle,
		Name:   u.Name,
		Avatar: u.Avatar,
	}
}
