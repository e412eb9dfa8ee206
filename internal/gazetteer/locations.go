package gazetteer

// knownLocations - встроенная таблица городов и поселков региона с
// англоязычными и ивритскими вариантами написания
var knownLocations = []Entry{
	{"tel aviv", 32.0853, 34.7818},
	{"תל אביב", 32.0853, 34.7818},
	{"תל-אביב", 32.0853, 34.7818},
	{"תא", 32.0853, 34.7818},
	{"jerusalem", 31.7683, 35.2137},
	{"ירושלים", 31.7683, 35.2137},
	{"י-ם", 31.7683, 35.2137},
	{"haifa", 32.7940, 34.9896},
	{"חיפה", 32.7940, 34.9896},
	{"beer sheva", 31.2518, 34.7913},
	{"באר שבע", 31.2518, 34.7913},
	{"ב\"ש", 31.2518, 34.7913},
	{"beersheba", 31.2518, 34.7913},
	{"rishon lezion", 31.9730, 34.7925},
	{"ראשון לציון", 31.9730, 34.7925},
	{"ראשל\"צ", 31.9730, 34.7925},
	{"petah tikva", 32.0841, 34.8878},
	{"פתח תקווה", 32.0841, 34.8878},
	{"פ\"ת", 32.0841, 34.8878},
	{"holon", 32.0117, 34.7728},
	{"חולון", 32.0117, 34.7728},
	{"bnei brak", 32.0833, 34.8333},
	{"בני ברק", 32.0833, 34.8333},
	{"ramat gan", 32.0700, 34.8236},
	{"רמת גן", 32.0700, 34.8236},
	{"bat yam", 32.0167, 34.7500},
	{"בת ים", 32.0167, 34.7500},
	{"givatayim", 32.0714, 34.8117},
	{"גבעתיים", 32.0714, 34.8117},
	{"herzliya", 32.1653, 34.8458},
	{"הרצליה", 32.1653, 34.8458},
	{"raanana", 32.1833, 34.8667},
	{"רעננה", 32.1833, 34.8667},
	{"kfar saba", 32.1781, 34.9069},
	{"כפר סבא", 32.1781, 34.9069},
	{"hod hasharon", 32.1500, 34.8833},
	{"הוד השרון", 32.1500, 34.8833},
	{"netanya", 32.3286, 34.8567},
	{"נתניה", 32.3286, 34.8567},
	{"rehovot", 31.8928, 34.8113},
	{"רחובות", 31.8928, 34.8113},
	{"ashdod", 31.8044, 34.6553},
	{"אשדוד", 31.8044, 34.6553},
	{"ashkelon", 31.6658, 34.5664},
	{"אשקלון", 31.6658, 34.5664},
	{"hadera", 32.4339, 34.9197},
	{"חדרה", 32.4339, 34.9197},
	{"caesarea", 32.5000, 34.9000},
	{"קיסריה", 32.5000, 34.9000},
	{"zichron yaakov", 32.5667, 34.9500},
	{"זכרון יעקב", 32.5667, 34.9500},
	{"nahariya", 33.0089, 35.0931},
	{"נהריה", 33.0089, 35.0931},
	{"kiryat shmona", 33.2075, 35.5697},
	{"קרית שמונה", 33.2075, 35.5697},
	{"safed", 32.9658, 35.4983},
	{"צפת", 32.9658, 35.4983},
	{"tiberias", 32.7922, 35.5311},
	{"טבריה", 32.7922, 35.5311},
	{"karmiel", 32.9136, 35.2961},
	{"כרמיאל", 32.9136, 35.2961},
	{"afula", 32.6100, 35.2883},
	{"עפולה", 32.6100, 35.2883},
	{"beit shean", 32.5000, 35.5000},
	{"בית שאן", 32.5000, 35.5000},
	{"yokneam", 32.6592, 35.1094},
	{"יקנעם", 32.6592, 35.1094},
	{"kiryat ata", 32.8000, 35.1000},
	{"קרית אתא", 32.8000, 35.1000},
	{"kiryat bialik", 32.8333, 35.0833},
	{"קרית ביאליק", 32.8333, 35.0833},
	{"kiryat motzkin", 32.8333, 35.0667},
	{"קרית מוצקין", 32.8333, 35.0667},
	{"kiryat yam", 32.8500, 35.0667},
	{"קרית ים", 32.8500, 35.0667},
	{"nesher", 32.7667, 35.0333},
	{"נשר", 32.7667, 35.0333},
	{"tirat carmel", 32.7667, 34.9667},
	{"טירת כרמל", 32.7667, 34.9667},
	{"eilat", 29.5569, 34.9517},
	{"אילת", 29.5569, 34.9517},
	{"dimona", 31.0667, 35.0333},
	{"דימונה", 31.0667, 35.0333},
	{"arad", 31.2589, 35.2128},
	{"ערד", 31.2589, 35.2128},
	{"sderot", 31.5250, 34.5964},
	{"שדרות", 31.5250, 34.5964},
	{"ofakim", 31.3167, 34.6167},
	{"אופקים", 31.3167, 34.6167},
	{"netivot", 31.4167, 34.5833},
	{"נתיבות", 31.4167, 34.5833},
	{"kiryat gat", 31.6100, 34.7644},
	{"קרית גת", 31.6100, 34.7644},
	{"beit shemesh", 31.7514, 34.9886},
	{"בית שמש", 31.7514, 34.9886},
	{"modiin", 31.8989, 35.0103},
	{"מודיעין", 31.8989, 35.0103},
	{"maale adumim", 31.7772, 35.3008},
	{"מעלה אדומים", 31.7772, 35.3008},
	{"umm el-fahm", 32.5167, 35.1500},
	{"um el fahem", 32.5167, 35.1500},
	{"אום אל-פחם", 32.5167, 35.1500},
	{"baqa al-gharbiyye", 32.4167, 35.0333},
	{"baqa", 32.4167, 35.0333},
	{"בקה אל-גרבייה", 32.4167, 35.0333},
	{"kafr qasim", 32.1136, 34.9786},
	{"kfar qassem", 32.1136, 34.9786},
	{"כפר קאסם", 32.1136, 34.9786},
	{"tira", 32.2333, 34.9500},
	{"טירה", 32.2333, 34.9500},
	{"tayibe", 32.2667, 35.0000},
	{"טייבה", 32.2667, 35.0000},
	{"qalansawe", 32.2833, 34.9833},
	{"קלנסווה", 32.2833, 34.9833},
	{"kafr qara", 32.5000, 35.0833},
	{"כפר קרע", 32.5000, 35.0833},
	{"ar'ara", 32.5000, 35.1000},
	{"ערערה", 32.5000, 35.1000},
	{"jaljulia", 32.1500, 34.9500},
	{"ג'לג'וליה", 32.1500, 34.9500},
	{"nazareth", 32.6996, 35.3035},
	{"נצרת", 32.6996, 35.3035},
	{"الناصرة", 32.6996, 35.3035},
	{"shefa-amr", 32.8056, 35.1697},
	{"shfaram", 32.8056, 35.1697},
	{"שפרעם", 32.8056, 35.1697},
	{"sakhnin", 32.8667, 35.3000},
	{"סח'נין", 32.8667, 35.3000},
	{"tamra", 32.8500, 35.2000},
	{"טמרה", 32.8500, 35.2000},
	{"arraba", 32.8500, 35.3333},
	{"עראבה", 32.8500, 35.3333},
	{"deir hanna", 32.8667, 35.3667},
	{"דיר חנא", 32.8667, 35.3667},
	{"majd al-krum", 32.9167, 35.2500},
	{"מג'ד אל-כרום", 32.9167, 35.2500},
	{"kafr manda", 32.8167, 35.2667},
	{"כפר מנדא", 32.8167, 35.2667},
	{"kafr kanna", 32.7500, 35.3333},
	{"כפר כנא", 32.7500, 35.3333},
	{"yaffa an-naseriyye", 32.6833, 35.2833},
	{"יפיע", 32.6833, 35.2833},
	{"iksal", 32.6833, 35.3500},
	{"אכסאל", 32.6833, 35.3500},
	{"ibillin", 32.8333, 35.2333},
	{"אבילין", 32.8333, 35.2333},
	{"kabul", 32.8667, 35.2000},
	{"כאבול", 32.8667, 35.2000},
	{"nahef", 32.9500, 35.3167},
	{"נחף", 32.9500, 35.3167},
	{"judeide-maker", 32.9333, 35.2500},
	{"ג'דיידה-מכר", 32.9333, 35.2500},
	{"rahat", 31.3925, 34.7539},
	{"רהט", 31.3925, 34.7539},
	{"hura", 31.2933, 34.9300},
	{"חורה", 31.2933, 34.9300},
	{"tel sheva", 31.2500, 34.8167},
	{"תל שבע", 31.2500, 34.8167},
	{"kuseife", 31.2167, 34.9833},
	{"כסייפה", 31.2167, 34.9833},
	{"laqye", 31.3333, 34.8500},
	{"לקייה", 31.3333, 34.8500},
	{"segev shalom", 31.2500, 34.9167},
	{"שגב שלום", 31.2500, 34.9167},
	{"arara banegev", 31.2833, 34.9000},
	{"ערערה-בנגב", 31.2833, 34.9000},
	{"acre", 32.9278, 35.0817},
	{"akko", 32.9278, 35.0817},
	{"עכו", 32.9278, 35.0817},
	{"lod", 31.9514, 34.8917},
	{"לוד", 31.9514, 34.8917},
	{"ramle", 31.9292, 34.8628},
	{"רמלה", 31.9292, 34.8628},
	{"jaffa", 32.0503, 34.7597},
	{"יפו", 32.0503, 34.7597},
}
