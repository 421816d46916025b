package nations

import "github.com/mcoot/dombot/internal/model"

// dominions5Nations maps the game's nation ids to names for every era
var dominions5Nations = []model.Nation{
	{ID: 5, Name: "Arcoscephale", Era: model.EraEarly},
	{ID: 6, Name: "Ermor", Era: model.EraEarly},
	{ID: 7, Name: "Ulm", Era: model.EraEarly},
	{ID: 8, Name: "Marverni", Era: model.EraEarly},
	{ID: 9, Name: "Sauromatia", Era: model.EraEarly},
	{ID: 10, Name: "T'ien Ch'i", Era: model.EraEarly},
	{ID: 11, Name: "Machaka", Era: model.EraEarly},
	{ID: 12, Name: "Mictlan", Era: model.EraEarly},
	{ID: 13, Name: "Abysia", Era: model.EraEarly},
	{ID: 14, Name: "Caelum", Era: model.EraEarly},
	{ID: 15, Name: "C'tis", Era: model.EraEarly},
	{ID: 16, Name: "Pangaea", Era: model.EraEarly},
	{ID: 17, Name: "Agartha", Era: model.EraEarly},
	{ID: 18, Name: "Tir na n'Og", Era: model.EraEarly},
	{ID: 19, Name: "Fomoria", Era: model.EraEarly},
	{ID: 20, Name: "Vanheim", Era: model.EraEarly},
	{ID: 21, Name: "Helheim", Era: model.EraEarly},
	{ID: 22, Name: "Niefelheim", Era: model.EraEarly},
	{ID: 24, Name: "Rus", Era: model.EraEarly},
	{ID: 25, Name: "Kailasa", Era: model.EraEarly},
	{ID: 26, Name: "Lanka", Era: model.EraEarly},
	{ID: 27, Name: "Yomi", Era: model.EraEarly},
	{ID: 28, Name: "Hinnom", Era: model.EraEarly},
	{ID: 29, Name: "Ur", Era: model.EraEarly},
	{ID: 30, Name: "Berytos", Era: model.EraEarly},
	{ID: 31, Name: "Xibalba", Era: model.EraEarly},
	{ID: 32, Name: "Mekone", Era: model.EraEarly},
	{ID: 33, Name: "Ubar", Era: model.EraEarly},
	{ID: 36, Name: "Atlantis", Era: model.EraEarly},
	{ID: 37, Name: "R'lyeh", Era: model.EraEarly},
	{ID: 38, Name: "Pelagia", Era: model.EraEarly},
	{ID: 39, Name: "Oceania", Era: model.EraEarly},
	{ID: 40, Name: "Therodos", Era: model.EraEarly},
	{ID: 43, Name: "Arcoscephale", Era: model.EraMiddle},
	{ID: 44, Name: "Ermor", Era: model.EraMiddle},
	{ID: 45, Name: "Sceleria", Era: model.EraMiddle},
	{ID: 46, Name: "Pythium", Era: model.EraMiddle},
	{ID: 47, Name: "Man", Era: model.EraMiddle},
	{ID: 48, Name: "Eriu", Era: model.EraMiddle},
	{ID: 49, Name: "Ulm", Era: model.EraMiddle},
	{ID: 50, Name: "Marignon", Era: model.EraMiddle},
	{ID: 51, Name: "Mictlan", Era: model.EraMiddle},
	{ID: 52, Name: "T'ien Ch'i", Era: model.EraMiddle},
	{ID: 53, Name: "Machaka", Era: model.EraMiddle},
	{ID: 54, Name: "Agartha", Era: model.EraMiddle},
	{ID: 55, Name: "Abysia", Era: model.EraMiddle},
	{ID: 56, Name: "Caelum", Era: model.EraMiddle},
	{ID: 57, Name: "C'tis", Era: model.EraMiddle},
	{ID: 58, Name: "Pangaea", Era: model.EraMiddle},
	{ID: 59, Name: "Asphodel", Era: model.EraMiddle},
	{ID: 60, Name: "Vanheim", Era: model.EraMiddle},
	{ID: 61, Name: "Jotunheim", Era: model.EraMiddle},
	{ID: 62, Name: "Vanarus", Era: model.EraMiddle},
	{ID: 63, Name: "Bandar Log", Era: model.EraMiddle},
	{ID: 64, Name: "Shinuyama", Era: model.EraMiddle},
	{ID: 65, Name: "Ashdod", Era: model.EraMiddle},
	{ID: 66, Name: "Uruk", Era: model.EraMiddle},
	{ID: 67, Name: "Nazca", Era: model.EraMiddle},
	{ID: 68, Name: "Xibalba", Era: model.EraMiddle},
	{ID: 69, Name: "Phlegra", Era: model.EraMiddle},
	{ID: 70, Name: "Phaeacia", Era: model.EraMiddle},
	{ID: 71, Name: "Ind", Era: model.EraMiddle},
	{ID: 72, Name: "Na'Ba", Era: model.EraMiddle},
	{ID: 73, Name: "Atlantis", Era: model.EraMiddle},
	{ID: 74, Name: "R'lyeh", Era: model.EraMiddle},
	{ID: 75, Name: "Pelagia", Era: model.EraMiddle},
	{ID: 76, Name: "Oceania", Era: model.EraMiddle},
	{ID: 77, Name: "Ys", Era: model.EraMiddle},
	{ID: 80, Name: "Arcoscephale", Era: model.EraLate},
	{ID: 81, Name: "Pythium", Era: model.EraLate},
	{ID: 82, Name: "Lemuria", Era: model.EraLate},
	{ID: 83, Name: "Man", Era: model.EraLate},
	{ID: 84, Name: "Ulm", Era: model.EraLate},
	{ID: 85, Name: "Marignon", Era: model.EraLate},
	{ID: 86, Name: "Mictlan", Era: model.EraLate},
	{ID: 87, Name: "T'ien Ch'i", Era: model.EraLate},
	{ID: 89, Name: "Jomon", Era: model.EraLate},
	{ID: 90, Name: "Agartha", Era: model.EraLate},
	{ID: 91, Name: "Abysia", Era: model.EraLate},
	{ID: 92, Name: "Caelum", Era: model.EraLate},
	{ID: 93, Name: "C'tis", Era: model.EraLate},
	{ID: 94, Name: "Pangaea", Era: model.EraLate},
	{ID: 95, Name: "Midgård", Era: model.EraLate},
	{ID: 96, Name: "Utgård", Era: model.EraLate},
	{ID: 97, Name: "Bogarus", Era: model.EraLate},
	{ID: 98, Name: "Patala", Era: model.EraLate},
	{ID: 99, Name: "Gath", Era: model.EraLate},
	{ID: 100, Name: "Ragha", Era: model.EraLate},
	{ID: 101, Name: "Xibalba", Era: model.EraLate},
	{ID: 102, Name: "Phlegra", Era: model.EraLate},
	{ID: 103, Name: "Vaettiheim", Era: model.EraLate},
	{ID: 106, Name: "Atlantis", Era: model.EraLate},
	{ID: 107, Name: "R'lyeh", Era: model.EraLate},
	{ID: 108, Name: "Erytheia", Era: model.EraLate},
}
