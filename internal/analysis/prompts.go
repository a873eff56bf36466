package analysis

const skillsSystem = "You are a skilled HR expert who extracts technical and professional skills from text. " +
	"Reply with JSON only."

const skillsPrompt = `Extract all relevant skills from this %s. Focus on technical skills, programming languages, frameworks, tools, and professional competencies.
Return a JSON object of the form {"skills": ["skill", ...]} and nothing else.

Text:
%s`

const matchSystem = "You are an expert career counselor who scores how well a candidate fits a job. " +
	"Be concise but informative. Reply with JSON only."

const matchPrompt = `Compare the candidate resume with the job posting.

Job title: %s
Job skills: %s
Job text:
%s

Candidate skills: %s
Resume text:
%s

Return a JSON object of the form
{"match_score": <integer 0-100>, "matching_skills": [string], "missing_skills": [string], "explanation": "<2-3 sentences>"}
matching_skills are job skills the candidate has; missing_skills are job skills the candidate lacks.`
