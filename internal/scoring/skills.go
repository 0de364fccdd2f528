// Package scoring implements the pure match scoring core: skill resolution
// through synonym/relation tiers, the seven component scorers, and the
// weighted aggregation into a MatchResult. Nothing in this package touches
// storage or shared state, so every function is safe for concurrent use.
package scoring

import (
	"strings"

	"github.com/talentgrid/matchd/internal/domain"
)

// MatchType names the tier a required skill resolved through.
type MatchType string

const (
	// MatchExact is a direct name hit.
	MatchExact MatchType = "exact"
	// MatchSynonym is a hit through the static synonym table.
	MatchSynonym MatchType = "synonym"
	// MatchRelated is a hit through the static relation table.
	MatchRelated MatchType = "related"
	// MatchPartial is a substring overlap in either direction.
	MatchPartial MatchType = "partial"
	// MatchNone means the skill did not resolve.
	MatchNone MatchType = "none"
)

// Tier scores. Aliases are nearly as good as exact hits, adjacent tech is a
// weaker signal, textual overlap is a last resort.
const (
	scoreExact   = 1.0
	scoreSynonym = 0.9
	scoreRelated = 0.7
	scorePartial = 0.5
)

// skillSynonyms maps a canonical skill to recognized alternate names.
var skillSynonyms = map[string][]string{
	"javascript":            {"js", "es6", "node.js", "nodejs"},
	"python":                {"py", "django", "flask", "fastapi"},
	"java":                  {"spring", "spring boot"},
	"c#":                    {"csharp", "dotnet", ".net", "asp.net"},
	"c++":                   {"cpp"},
	"typescript":            {"ts"},
	"react":                 {"reactjs"},
	"angular":               {"angularjs", "ng"},
	"vue":                   {"vuejs"},
	"node":                  {"nodejs", "node.js"},
	"sql":                   {"mysql", "postgresql", "postgres", "oracle", "mssql", "t-sql"},
	"nosql":                 {"mongodb", "cassandra", "redis", "dynamo", "elasticsearch"},
	"mongodb":               {"mongo"},
	"postgresql":            {"postgres", "psql"},
	"mysql":                 {"mariadb"},
	"aws":                   {"amazon web services"},
	"gcp":                   {"google cloud", "google cloud platform"},
	"azure":                 {"microsoft azure"},
	"docker":                {"containerization", "containers"},
	"kubernetes":            {"k8s"},
	"git":                   {"github", "gitlab", "bitbucket"},
	"ci/cd":                 {"continuous integration", "continuous deployment", "jenkins", "gitlab ci", "github actions"},
	"devops":                {"infrastructure as code", "iac"},
	"testing":               {"jest", "mocha", "pytest", "unittest", "jasmine"},
	"html":                  {"html5"},
	"css":                   {"scss", "sass", "less"},
	"rest":                  {"restful", "rest api"},
	"graphql":               {"gql"},
	"api":                   {"web api", "rest api"},
	"machine learning":      {"ml", "deep learning", "ai", "artificial intelligence"},
	"tensorflow":            {"tf"},
	"pytorch":               {"torch"},
	"data science":          {"data analysis", "analytics"},
	"scikit-learn":          {"sklearn"},
	"excel":                 {"spreadsheet"},
	"tableau":               {"data visualization"},
	"power bi":              {"powerbi", "business intelligence", "bi"},
	"agile":                 {"scrum", "kanban"},
	"linux":                 {"unix"},
	"windows":               {"windows server"},
	"macos":                 {"mac os", "osx"},
	"go":                    {"golang"},
	"ruby":                  {"rails", "ruby on rails"},
	"php":                   {"laravel", "symfony"},
	"r":                     {"r programming"},
	"salesforce":            {"sfdc"},
	"oracle":                {"oracle database"},
	"communication":         {"interpersonal", "soft skills", "presentation"},
	"leadership":            {"management", "team management"},
	"project management":    {"pm", "pmp"},
	"problem solving":       {"analytical thinking"},
	"attention to detail":   {"detail-oriented"},
	"time management":       {"deadline-driven"},
	"collaboration":         {"teamwork", "cooperation"},
	"aws s3":                {"s3"},
	"aws lambda":            {"lambda"},
	"aws rds":               {"rds"},
	"aws ec2":               {"ec2"},
	"microservices":         {"microservice architecture"},
	"rest api":              {"rest", "restful"},
	"messaging":             {"rabbitmq", "kafka", "activemq"},
	"rabbitmq":              {"amqp"},
	"redis":                 {"caching", "cache"},
	"memcached":             {"caching"},
	"elasticsearch":         {"search"},
	"neo4j":                 {"graph database"},
	"dynamodb":              {"nosql", "dynamo"},
	"html/css":              {"html", "css"},
	"javascript/typescript": {"js", "ts"},
}

// skillRelations maps a skill to conceptually adjacent but non-equivalent
// skills. Consulted only after the synonym table misses.
var skillRelations = map[string][]string{
	"javascript":       {"typescript", "node.js", "react", "angular", "vue", "html", "css"},
	"python":           {"django", "flask", "fastapi", "data science", "machine learning"},
	"java":             {"spring", "spring boot", "microservices", "android"},
	"react":            {"javascript", "typescript", "html", "css", "webpack"},
	"angular":          {"typescript", "javascript", "html", "css", "rxjs"},
	"vue":              {"javascript", "typescript", "html", "css"},
	"node.js":          {"javascript", "typescript", "rest api", "express", "mongodb"},
	"aws":              {"devops", "docker", "kubernetes", "ci/cd", "terraform"},
	"docker":           {"kubernetes", "devops", "ci/cd"},
	"kubernetes":       {"docker", "devops", "microservices"},
	"machine learning": {"python", "data science", "tensorflow", "pytorch"},
	"data science":     {"python", "sql", "machine learning", "pandas", "numpy"},
	"devops":           {"docker", "kubernetes", "ci/cd", "aws", "linux"},
	"sql":              {"database", "nosql", "postgresql", "mysql"},
	"rest api":         {"api", "json", "http", "web services"},
	"microservices":    {"docker", "kubernetes", "api", "message queues"},
	"testing":          {"javascript", "python", "java", "ci/cd"},
	"git":              {"github", "gitlab", "version control"},
	"linux":            {"devops", "aws", "docker", "kubernetes"},
}

// NormalizeSkill lowercases and trims a skill name.
func NormalizeSkill(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// ResolveSkill resolves one required skill against a candidate's skill names.
// First matching tier wins: exact 1.0, synonym 0.9, related 0.7, substring
// overlap 0.5, otherwise 0.0. An empty candidate list never resolves.
func ResolveSkill(requiredSkill string, candidateSkills []string) (float64, MatchType) {
	required := NormalizeSkill(requiredSkill)

	names := make(map[string]struct{}, len(candidateSkills))
	for _, s := range candidateSkills {
		names[NormalizeSkill(s)] = struct{}{}
	}

	if _, ok := names[required]; ok {
		return scoreExact, MatchExact
	}

	for _, synonym := range skillSynonyms[required] {
		if _, ok := names[NormalizeSkill(synonym)]; ok {
			return scoreSynonym, MatchSynonym
		}
	}

	for _, related := range skillRelations[required] {
		if _, ok := names[NormalizeSkill(related)]; ok {
			return scoreRelated, MatchRelated
		}
	}

	for name := range names {
		if name == "" {
			continue
		}
		if strings.Contains(name, required) || strings.Contains(required, name) {
			return scorePartial, MatchPartial
		}
	}

	return 0.0, MatchNone
}

// ScoreSkills scores a candidate's skill set against the required list.
// The score is the mean of ResolveSkill over all required skills; missing
// collects required skills that did not resolve at all, standout collects
// candidate skills outside the normalized required set. An empty required
// list is a perfect score.
func ScoreSkills(requiredSkills []string, candidateSkills []domain.Skill) (score float64, missing, standout []string) {
	if len(requiredSkills) == 0 {
		return 1.0, nil, nil
	}

	names := make([]string, 0, len(candidateSkills))
	for _, s := range candidateSkills {
		names = append(names, s.Name)
	}

	var total float64
	for _, required := range requiredSkills {
		s, _ := ResolveSkill(required, names)
		total += s
		if s == 0.0 {
			missing = append(missing, required)
		}
	}

	requiredSet := make(map[string]struct{}, len(requiredSkills))
	for _, r := range requiredSkills {
		requiredSet[NormalizeSkill(r)] = struct{}{}
	}
	for _, s := range candidateSkills {
		normalized := NormalizeSkill(s.Name)
		if normalized == "" {
			continue
		}
		if _, ok := requiredSet[normalized]; !ok {
			standout = append(standout, s.Name)
		}
	}

	return total / float64(len(requiredSkills)), missing, standout
}
