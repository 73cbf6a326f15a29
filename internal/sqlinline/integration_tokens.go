package sqlinline

const QSelectIntegrationToken = `--sql 3b0c5f8e-1d2a-4c6e-9f41-7a2d9c4e8b10
select token
from integration_tokens
where provider = $1::text
limit 1;
`

const QUpsertIntegrationToken = `--sql 9e7d2a41-5c3b-4f08-b6a2-0d1e4f7c3a95
insert into integration_tokens (id, provider, token, properties, created_at, updated_at)
values (gen_random_uuid(), $1::text, $2::text, coalesce($3::jsonb, '{}'::jsonb), now(), now())
on conflict (provider) do update set
    token = excluded.token,
    properties = integration_tokens.properties || excluded.properties,
    updated_at = now();
`
