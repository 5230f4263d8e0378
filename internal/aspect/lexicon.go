package aspect

import "review_insight/internal/domain"

// DefaultLexicons returns a fresh copy of the built-in aspect terms.
// English entries match whole words or phrases ('*' suffix = prefix);
// Hangul entries match as substrings.
func DefaultLexicons() map[domain.Aspect][]string {
	out := make(map[domain.Aspect][]string, len(defaultLexicons))
	for a, terms := range defaultLexicons {
		out[a] = append([]string(nil), terms...)
	}
	return out
}

var defaultLexicons = map[domain.Aspect][]string{
	domain.Cleanliness: {
		"clean", "cleaned", "cleanliness", "dirty", "filthy", "unclean", "dust", "dusty", "stain", "stains", "stained", "tidy",
		"spotless", "hygien*", "mold", "moldy", "mould", "mouldy", "hair", "messy", "sanitary", "housekeeping", "cleaning",
		"청결", "깨끗", "더럽", "지저분", "먼지", "바닥", "청소", "깔끔", "위생",
	},
	domain.Facilities: {
		"facility", "facilities", "room", "rooms", "bed", "beds", "shower*", "bathroom*", "toilet*", "tv",
		"aircon", "air conditioning", "air conditioner", "heating", "heater", "wifi", "wi-fi", "elevator",
		"parking", "lock", "locks", "locked", "locker", "lockers", "renovat*", "amenit*", "furniture", "hot water", "lobby", "building",
		"시설", "온수", "샤워", "온도", "따뜻", "차갑", "잠금장치", "리모델링", "노후", "낡", "객실", "침대",
		"난방", "에어컨",
	},
	domain.Staff: {
		"staff", "employee*", "reception*", "front desk", "manager", "service", "host", "owner", "concierge",
		"rude", "polite", "impolite", "friendly", "unfriendly", "attitude", "helpful", "unhelpful",
		"직원", "응대", "서비스", "친절", "불친절", "태도", "안내", "프론트", "매니저", "부장", "격양",
	},
	domain.Price: {
		"price*", "pricey", "cost", "costs", "costly", "expensive", "cheap*", "overpriced", "value", "money", "fee", "fees",
		"charge*", "package*", "breakfast", "meal*", "food", "dinner", "buffet", "affordable",
		"가격", "비싸", "저렴", "가성비", "요금", "비용", "패키지", "조식", "식사", "음식", "맛있", "맛없",
	},
	domain.HotSpringWater: {
		"hot spring*", "hotspring*", "onsen", "spring water", "thermal", "sauna*", "spa", "bath", "baths",
		"bathing", "open-air bath", "outdoor bath", "carbonated", "mineral water", "jjimjil*", "tub",
		"온천", "탄산", "온천수", "탕", "사우나", "찜질방", "목욕", "온천욕", "온천물", "효능", "힐링",
		"선녀탕", "노천탕",
	},
}
