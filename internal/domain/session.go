package domain

// Session 会话快照
// Loading 只在首次 Restore 完成前为 true
type Session struct {
	User    *User
	Loading bool
}

// LoggedIn 是否已登录
func (s Session) LoggedIn() bool {
	return s.User != nil
}

// UserID 当前用户 ID，未登录返回 0
func (s Session) UserID() int64 {
	if s.User == nil {
		return 0
	}
	return s.User.ID
}
