package migration

import (
	"gorm.io/gorm"

	coredomain "github.com/jangteo/jangteo-backend/internal/domain"
	chatdomain "github.com/jangteo/jangteo-backend/internal/plugins/chat/domain"
	mkdomain "github.com/jangteo/jangteo-backend/internal/plugins/marketplace/domain"
)

// Run 스키마 자동 마이그레이션.
// conversations의 (pair_key, item_id) 유니크 인덱스와 friendships의
// pair_key 유니크 인덱스가 find-or-create 멱등성의 근거이므로
// 모델 태그에서 빠지면 안 된다.
func Run(db *gorm.DB) error {
	return db.AutoMigrate(
		&coredomain.Member{},
		&chatdomain.Conversation{},
		&chatdomain.ConversationParticipant{},
		&chatdomain.Friendship{},
		&chatdomain.Message{},
		&mkdomain.Item{},
	)
}
