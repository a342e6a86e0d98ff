package models

const (
	EmailRegex = `[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`

	// NotFound marks identity fields the extractor could not recover.
	NotFound = "Not Found"

	MaxNameLen    = 50
	MaxAddressLen = 100
	MaxRoleLen    = 60

	ContextSeparator = "\n\n"
)

var (
	RoleKeywords = []string{
		"Software Engineer", "Engineer", "Developer", "Manager",
		"Analyst", "Lead", "Architect", "Designer", "Consultant",
	}

	AddressKeywords = []string{
		"Street", "Avenue", "Road", "Rd", "St", "Ave", "Drive", "Dr",
		"Lane", "Ln", "City", "State", "Zip", "Country",
	}

	// ChunkSeparators are tried most-structural first; the splitter falls
	// back to hard character cuts only when none fit the chunk size.
	ChunkSeparators = []string{"\n----------------\n", "\nSECTION\n", "\n\n", "\n", " "}
)

var (
	EnrichedChunkTemplate = `CANDIDATE IDENTITY: %s
FULL NAME: %s
ADDRESS: %s
JOB ROLE: %s

--- SECTION CONTENT ---
%s`

	MultiQueryPromptTemplate = `You are an AI recruiter assistant.
Your goal is to generate 3 alternative versions of the user's query to help find relevant CVs.
Provide different variations using recruitment jargon, acronyms, or broader terms.

Original query: %s

Output ONLY the 3 variations separated by commas.`

	HyDEPromptTemplate = `You are an AI recruiter.
Write a short, hypothetical paragraph of a CV or an answer that would perfectly satisfy the user's query.
Focus on skills, experience, and keywords that would build a strong match.

User query: %s

Hypothetical content:`

	DecompositionPromptTemplate = `You are an AI recruiter.
Break down the following complex user query into 2-3 simpler sub-questions that would help in retrieving the right documents.
If the query is already simple, just return it as is.

User query: %s

Output sub-questions separated by commas.`

	StepBackPromptTemplate = `You are an AI recruiter.
Given a specific recruitment query, generate a more general, high-level "step-back" question
that would provide the necessary context to answer the user's specific request.

Specific User Query: %s

Step-back Query:`

	AnswerSystemPromptTemplate = `You are an expert AI Recruiter Assistant.
Use the following context (resumes/CVs) to answer the user's question.
If the answer is not in the context, say you don't know.

Context:
%s`
)
