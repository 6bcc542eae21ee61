package middleware

import (
	"sync"

	"github.com/gin-gonic/gin"
)

var (
	globalMgr *Manager
	once      sync.Once
)

// Manager 全局中间件注册器，启动期填好，ApplyTo 一次性挂到引擎上
type Manager struct {
	mu   sync.RWMutex
	mids []gin.HandlerFunc
}

func GlobalManager() *Manager {
	once.Do(func() {
		globalMgr = &Manager{}
	})
	return globalMgr
}

func (m *Manager) Use(h gin.HandlerFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.mids = append(m.mids, h)
}

func (m *Manager) ApplyTo(r *gin.Engine) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, h := range m.mids {
		r.Use(h)
	}
}
