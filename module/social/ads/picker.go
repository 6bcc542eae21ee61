package ads

import (
	"math/rand"

	socialmodel "SocialCore/module/social/model"
)

// pickOne 命中池里等概率抽一条，空池返回 nil
func pickOne(pool []*socialmodel.Campaign, rnd *rand.Rand) *socialmodel.Campaign {
	switch len(pool) {
	case 0:
		return nil
	case 1:
		return pool[0]
	}
	return pool[rnd.Intn(len(pool))]
}
