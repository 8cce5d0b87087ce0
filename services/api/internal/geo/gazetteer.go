package geo

// GazetteerEntry maps a known locality to its coordinates.
type GazetteerEntry struct {
	Latitude    float64
	Longitude   float64
	DisplayName string
}

// gazetteer is the static lookup table for the localities that make up the
// bulk of search traffic. Keys are lower-cased suburb names and postcodes;
// a hit here never touches the network. Anything else falls through to the
// external geocoder.
var gazetteer = map[string]GazetteerEntry{
	"melbourne":    {-37.8136, 144.9631, "Melbourne VIC"},
	"3000":         {-37.8136, 144.9631, "Melbourne VIC"},
	"carlton":      {-37.8001, 144.9674, "Carlton VIC"},
	"3053":         {-37.8001, 144.9674, "Carlton VIC"},
	"fitzroy":      {-37.7983, 144.9777, "Fitzroy VIC"},
	"3065":         {-37.7983, 144.9777, "Fitzroy VIC"},
	"collingwood":  {-37.8022, 144.9884, "Collingwood VIC"},
	"3066":         {-37.8022, 144.9884, "Collingwood VIC"},
	"richmond":     {-37.8183, 145.0010, "Richmond VIC"},
	"3121":         {-37.8183, 145.0010, "Richmond VIC"},
	"south yarra":  {-37.8393, 144.9923, "South Yarra VIC"},
	"3141":         {-37.8393, 144.9923, "South Yarra VIC"},
	"st kilda":     {-37.8678, 144.9740, "St Kilda VIC"},
	"3182":         {-37.8678, 144.9740, "St Kilda VIC"},
	"footscray":    {-37.7996, 144.8998, "Footscray VIC"},
	"3011":         {-37.7996, 144.8998, "Footscray VIC"},
	"brunswick":    {-37.7667, 144.9599, "Brunswick VIC"},
	"3056":         {-37.7667, 144.9599, "Brunswick VIC"},
	"northcote":    {-37.7698, 145.0000, "Northcote VIC"},
	"3070":         {-37.7698, 145.0000, "Northcote VIC"},
	"preston":      {-37.7420, 145.0000, "Preston VIC"},
	"3072":         {-37.7420, 145.0000, "Preston VIC"},
	"coburg":       {-37.7446, 144.9640, "Coburg VIC"},
	"3058":         {-37.7446, 144.9640, "Coburg VIC"},
	"essendon":     {-37.7560, 144.9190, "Essendon VIC"},
	"3040":         {-37.7560, 144.9190, "Essendon VIC"},
	"hawthorn":     {-37.8220, 145.0350, "Hawthorn VIC"},
	"3122":         {-37.8220, 145.0350, "Hawthorn VIC"},
	"camberwell":   {-37.8421, 145.0578, "Camberwell VIC"},
	"3124":         {-37.8421, 145.0578, "Camberwell VIC"},
	"box hill":     {-37.8190, 145.1220, "Box Hill VIC"},
	"3128":         {-37.8190, 145.1220, "Box Hill VIC"},
	"glen waverley": {-37.8785, 145.1640, "Glen Waverley VIC"},
	"3150":         {-37.8785, 145.1640, "Glen Waverley VIC"},
	"dandenong":    {-37.9874, 145.2149, "Dandenong VIC"},
	"3175":         {-37.9874, 145.2149, "Dandenong VIC"},
	"frankston":    {-38.1413, 145.1226, "Frankston VIC"},
	"3199":         {-38.1413, 145.1226, "Frankston VIC"},
	"werribee":     {-37.9000, 144.6600, "Werribee VIC"},
	"3030":         {-37.9000, 144.6600, "Werribee VIC"},
	"sunshine":     {-37.7811, 144.8320, "Sunshine VIC"},
	"3020":         {-37.7811, 144.8320, "Sunshine VIC"},
	"geelong":      {-38.1499, 144.3617, "Geelong VIC"},
	"3220":         {-38.1499, 144.3617, "Geelong VIC"},
}

// LookupGazetteer returns the static entry for a normalized key, if any.
func LookupGazetteer(key string) (GazetteerEntry, bool) {
	entry, ok := gazetteer[key]
	return entry, ok
}
