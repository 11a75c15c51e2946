package models

// Like is keyed by the (user_id, post_id) pair. A row exists while the user likes the post.
type Like struct {
	UserID uint  `json:"user_id" gorm:"column:user_id;primaryKey;autoIncrement:false"`
	PostID uint  `json:"post_id" gorm:"column:post_id;primaryKey;autoIncrement:false;index"`
	User   *User `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Post   *Post `json:"-" gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE"`
}

// LikeStatus is the result of a toggle.
type LikeStatus struct {
	Liked bool  `json:"liked"`
	Count int64 `json:"count"`
}

func (Like) TableName() string {
	return "likes"
}
